package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.WarnLevel},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Fatalf("parseLevel(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("path", "x.csv").Msg("loaded")
	out := buf.String()
	if !strings.Contains(out, `"path":"x.csv"`) || !strings.Contains(out, `"message":"loaded"`) {
		t.Fatalf("unexpected log output: %q", out)
	}

	buf.Reset()
	Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug event emitted at info level: %q", buf.String())
	}
}

func TestSlogHandler_ForwardsAttrs(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	l := slog.New(NewSlogHandler()).WithGroup("svc")
	l.Warn("restarting", "attempt", 2)

	out := buf.String()
	if !strings.Contains(out, `"svc.attempt":2`) {
		t.Fatalf("attr not forwarded: %q", out)
	}
	if !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("level not mapped: %q", out)
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer reported as terminal")
	}
}

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	id := GenerateRequestID()
	if len(id) != 36 {
		t.Fatalf("request id %q is not a UUID", id)
	}
	ctx := ContextWithRequestID(context.Background(), id)
	if RequestIDFromContext(ctx) != id {
		t.Fatal("request id not stored")
	}
	Ctx(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), `"request_id":"`+id+`"`) {
		t.Fatalf("request id missing from log: %q", buf.String())
	}
}
