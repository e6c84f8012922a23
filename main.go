package main

import "github.com/kamusis/coursepath/cmd"

func main() {
	cmd.Execute()
}
