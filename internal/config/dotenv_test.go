package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDotEnv_NotExist(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".coursepath")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("# comment\nA=1\nB=two=2\n=skip\nexport C = three # trailing\nD=\"x # y\"\nE='single'\nnoequals\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	want := map[string]string{"A": "1", "B": "two=2", "C": "three", "D": "x # y", "E": "single"}
	if len(m) != len(want) {
		t.Fatalf("unexpected map: %v", m)
	}
	for k, v := range want {
		if m[k] != v {
			t.Fatalf("%s=%q want %q (map %v)", k, m[k], v, m)
		}
	}
}

func TestEnsureDotEnvTemplate_DoesNotOverwrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	p, _ := DotEnvPath()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "# COURSEPATH_DATA=") {
		t.Fatalf("unexpected template: %q", b)
	}

	if err := os.WriteFile(p, []byte("COURSEPATH_PORT=9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, _ = os.ReadFile(p)
	if string(b) != "COURSEPATH_PORT=9000\n" {
		t.Fatalf("template overwrote existing file: %q", b)
	}
}
