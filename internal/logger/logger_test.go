package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewWithWriter_Levels(t *testing.T) {
	var buf bytes.Buffer

	l := NewWithWriter(&buf, "production", "")
	l.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug logged outside dev: %s", buf.String())
	}

	l = NewWithWriter(&buf, "dev", "")
	l.Debug().Str("k", "v").Msg("shown")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["message"] != "shown" || entry["k"] != "v" || entry["level"] != "debug" {
		t.Fatalf("entry = %v", entry)
	}

	buf.Reset()
	l = NewWithWriter(&buf, "dev", "warn")
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("explicit level ignored: %s", buf.String())
	}
}
