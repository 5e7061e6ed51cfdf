package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_SingletonAndServiceField(t *testing.T) {
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})
	Reset()

	var buf bytes.Buffer
	log := Init(Options{Level: "debug", Service: "profiled", Output: &buf})
	log.Info().Str("k", "v").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "profiled" || entry["message"] != "hello" || entry["k"] != "v" {
		t.Fatalf("unexpected entry: %v", entry)
	}

	var other bytes.Buffer
	again := Init(Options{Output: &other})
	again.Info().Msg("second")
	if other.Len() != 0 {
		t.Fatalf("second Init must reuse the first logger")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected output to go to the first writer")
	}
}

func TestGet_BeforeInitIsNop(t *testing.T) {
	Reset()
	log := Get()
	if log.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled logger before Init, got %s", log.GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
