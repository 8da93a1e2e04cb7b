package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { setOutputs(os.Stdout, os.Stderr) })

	LogInfo("hello %s", "world")
	LogWarn("careful")
	LogError("boom %d", 1)

	out := buf.String()
	for _, want := range []string{"INFO: ", "hello world", "WARN: ", "careful", "ERROR: ", "boom 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSetLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")
	SetLogFile(path)

	LogInfo("written to file")
	if err := CloseLogFile(); err != nil {
		t.Fatalf("CloseLogFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing message: %s", data)
	}
}
