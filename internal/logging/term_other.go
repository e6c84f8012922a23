//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package logging

func isTerminalFd(int) bool { return false }
