package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	logger.Infof("starting crawl %s", "full")
	logger.Warnf("token pool at %d%%", 90)
	logger.Errorf("upsert failed: %v", os.ErrClosed)

	contents, err := os.ReadFile(filepath.Join(dir, "indexer.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	for _, want := range []string{"INFO", "starting crawl full", "WARN", "token pool at 90%", "ERROR", "upsert failed"} {
		if !strings.Contains(string(contents), want) {
			t.Errorf("expected log file to contain %q, got:\n%s", want, contents)
		}
	}
}

func TestLogger_Close(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
