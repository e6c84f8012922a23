package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(ConfigPathEnvVar, "")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	l, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.File != "" {
		t.Fatalf("File = %q, want none", l.File)
	}
	c := l.Config
	if c.Dataset.Path != "course_learning_path.csv" || !c.Dataset.WriteFallback {
		t.Fatalf("dataset = %+v", c.Dataset)
	}
	if c.Query.Q1 != (Axis{Min: -5, Max: 3, Step: 0.5}) || c.Query.Q2 != (Axis{Min: -2, Max: 1.5, Step: 0.5}) {
		t.Fatalf("query = %+v", c.Query)
	}
	if c.Server.RateLimitWindow != time.Minute || c.Server.Port != 8501 {
		t.Fatalf("server = %+v", c.Server)
	}
}

func TestLoad_Layers(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".coursepath")

	cfg := DefaultConfig()
	cfg.Dataset.Path = "~/courses.csv"
	cfg.Server.Port = 9000
	cfg.Logging.Level = "info"
	if err := Save(cfg, filepath.Join(dir, "coursepath.yaml")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COURSEPATH_PORT=9100\nCOURSEPATH_LOG_LEVEL=debug\nOTHER=x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COURSEPATH_LOG_LEVEL", "error")
	t.Setenv("COURSEPATH_SERVER_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("COURSEPATH_SERVER_RATE_LIMIT_WINDOW", "30s")

	l, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := l.Config
	if l.File != filepath.Join(dir, "coursepath.yaml") {
		t.Fatalf("File = %q", l.File)
	}
	if c.Dataset.Path != filepath.Join(home, "courses.csv") {
		t.Fatalf("dataset.path = %q, want expanded", c.Dataset.Path)
	}
	if c.Server.Port != 9100 {
		t.Fatalf("port = %d, dotenv should override file", c.Server.Port)
	}
	if c.Logging.Level != "error" {
		t.Fatalf("level = %q, env should override dotenv", c.Logging.Level)
	}
	if strings.Join(c.Server.CORSOrigins, "|") != "http://a.test|http://b.test" {
		t.Fatalf("cors = %v", c.Server.CORSOrigins)
	}
	if c.Server.RateLimitWindow != 30*time.Second {
		t.Fatalf("window = %v", c.Server.RateLimitWindow)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("query:\n  q1:\n    min: -1\n    max: 1\n    step: 0.25\n    default: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Config.Query.Q1 != (Axis{Min: -1, Max: 1, Step: 0.25, Default: 0.5}) {
		t.Fatalf("q1 = %+v", l.Config.Query.Q1)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if l, err := Load(""); err != nil || l.File != path {
		t.Fatalf("env path: %v, %v", l, err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing explicit config should error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"min not below max", func(c *Config) { c.Query.Q1.Max = -5 }, "max"},
		{"zero step", func(c *Config) { c.Query.Q2.Step = 0 }, "step"},
		{"default outside", func(c *Config) { c.Query.Q2.Default = 2 }, "query.q2.default"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "level"},
		{"no dataset", func(c *Config) { c.Dataset.Path = "" }, "path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)
	got, err := ExpandPath("~/x.csv")
	if err != nil || got != filepath.Join(home, "x.csv") {
		t.Fatalf("ExpandPath = %q, %v", got, err)
	}
	if got, _ := ExpandPath("rel/x.csv"); got != "rel/x.csv" {
		t.Fatalf("relative path changed: %q", got)
	}
}
