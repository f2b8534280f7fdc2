package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(-1) {
		t.Error("debug should be disabled at the default level")
	}
	if !logger.Core().Enabled(0) {
		t.Error("info should be enabled at the default level")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "level", cfg: Config{Level: "loud"}},
		{name: "format", cfg: Config{Format: "xml"}},
		{name: "output", cfg: Config{Output: filepath.Join(t.TempDir(), "missing", "log.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apicatalog.log")
	logger, err := New(Verbose(Config{Format: "json", Output: path}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("catalog built")
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, `"msg":"catalog built"`) || !strings.Contains(line, `"timestamp"`) {
		t.Errorf("unexpected log line %q", line)
	}
}
