package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(buf)

	logger.Info("hello", "key", "value")

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}

	logger.Info("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if !bytes.Contains(data, []byte("written to file")) {
		t.Errorf("expected message in log file, got %q", string(data))
	}
}

func TestGenerateState(t *testing.T) {
	a := GenerateState()
	b := GenerateState()

	if a == "" {
		t.Fatal("expected a non-empty state token")
	}
	if a == b {
		t.Error("expected distinct state tokens")
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Run("compact", func(t *testing.T) {
		data, err := MarshalJSON(map[string]string{"key": "value"}, false)
		if err != nil {
			t.Fatalf("MarshalJSON failed: %v", err)
		}
		if string(data) != `{"key":"value"}` {
			t.Errorf("unexpected output: %s", data)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		data, err := MarshalJSON(map[string]string{"key": "value"}, true)
		if err != nil {
			t.Fatalf("MarshalJSON failed: %v", err)
		}
		if !bytes.Contains(data, []byte("  \"key\": \"value\"")) {
			t.Errorf("expected indented output, got %s", data)
		}
	})
}
