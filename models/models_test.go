package models

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"closed", StatusClosed},
		{"Closed ", StatusClosed},
		{"RE-OPEN", StatusReopen},
		{"re-open", StatusReopen},
		{"new", StatusOpen},
		{"", StatusOpen},
		{"reopen", StatusOpen},
	}

	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRowTitle(t *testing.T) {
	r := Row{Problem: "Button fails\nSteps: click it"}
	if got := r.Title(); got != "Button fails" {
		t.Errorf("Title() = %q", got)
	}

	r = Row{Problem: "Windows line\r\nsecond"}
	if got := r.Title(); got != "Windows line" {
		t.Errorf("Title() = %q", got)
	}

	r = Row{Problem: "single line"}
	if got := r.Title(); got != "single line" {
		t.Errorf("Title() = %q", got)
	}
}

func TestSummaryTotals(t *testing.T) {
	s := Summary{Closed: 2, Reopened: 1, Existing: 3, New: 4}
	if s.Current() != 7 {
		t.Errorf("Current() = %d, want 7", s.Current())
	}
	if s.Total() != 10 {
		t.Errorf("Total() = %d, want 10", s.Total())
	}
}
