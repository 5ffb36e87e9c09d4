package version

import (
	"strings"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch date", date: "2026-02-14", expected: 0},
		{name: "next day after epoch", date: "2026-02-15", expected: 1},
		{name: "one year later", date: "2027-02-14", expected: 365},
		{name: "across leap years", date: "2032-02-14", expected: 2191},
		{name: "invalid format", date: "invalid", wantError: true},
		{name: "empty date", date: "", wantError: true},
		{name: "before epoch", date: "2026-02-13", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := Date
			defer func() { Date = old }()
			Date = tt.date

			got, err := Number()
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (number=%d)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Number() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInfoCarriesFailureReason(t *testing.T) {
	old := Date
	defer func() { Date = old }()
	Date = ""

	b := Info()
	if b.Known {
		t.Error("build without a date must not be Known")
	}
	if b.Reason == "" {
		t.Error("Reason must explain why the number is missing")
	}
}

func TestStringFormats(t *testing.T) {
	oldDate, oldCommit, oldBranch, oldCI := Date, Commit, Branch, CI
	defer func() { Date, Commit, Branch, CI = oldDate, oldCommit, oldBranch, oldCI }()

	Date, Commit, Branch, CI = "2026-02-15", "abc1234", "main", "ci-77"
	got := String()
	for _, want := range []string{"build #1", "2026-02-15", "abc1234", "main"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "(local)") {
		t.Errorf("String() = %q, CI build must not be marked local", got)
	}

	Date, Commit, Branch, CI = "", "", "", ""
	if got := String(); !strings.HasPrefix(got, "dev build") {
		t.Errorf("String() = %q, want dev build prefix", got)
	}
}
