package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"issuelogtotrello/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath, inputFile, worksheet, reportPath = "", "", "", ""
		logFile, rowPolicy, missingStatus = "", "", ""
		dryRun = false
		rootCmd.SetArgs(nil)
	})
}

func TestApplyFlagsLowercasesPolicies(t *testing.T) {
	resetFlags(t)
	rowPolicy = "SKIP"
	missingStatus = "Abort"

	cfg := &config.Config{}
	applyFlags(rootCmd, cfg)

	if cfg.Sync.RowPolicy != config.RowPolicySkip {
		t.Errorf("RowPolicy = %q, want %q", cfg.Sync.RowPolicy, config.RowPolicySkip)
	}
	if cfg.Sync.MissingStatus != config.RowPolicyAbort {
		t.Errorf("MissingStatus = %q, want %q", cfg.Sync.MissingStatus, config.RowPolicyAbort)
	}
}

func TestExecuteWritesFatalErrorToLogFile(t *testing.T) {
	resetFlags(t)
	for _, key := range []string{"TRELLO_API_KEY", "TRELLO_API_TOKEN", "TRELLO_BOARD_ID", "TRELLO_CONFIG"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("sync:\n  page_size: 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	logPath := filepath.Join(dir, "sync.log")

	rootCmd.SetArgs([]string{"--config", cfgPath, "--log-file", logPath})
	if code := execute(); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "ERROR: ") || !strings.Contains(string(data), "必須設定が不足しています") {
		t.Errorf("fatal error missing from log file:\n%s", data)
	}
}
