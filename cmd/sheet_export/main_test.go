package main

import "testing"

func TestWorkbookFlagName(t *testing.T) {
	flags := rootCmd.Flags()
	if flags.Lookup("file") == nil {
		t.Error("--file flag is not registered")
	}
	if flags.Lookup("input") != nil {
		t.Error("--input should not be registered")
	}
}
