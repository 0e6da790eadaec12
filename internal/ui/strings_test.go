package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours_only", 2*60*60 + 10, "2h"},
		{"hours_minutes", 2*60*60 + 3*60, "2h 3m"},
		{"days", 24 * 60 * 60, "1d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(time.Duration(tc.in) * time.Second)
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  Pen  ", 10); got != "Pen" {
		t.Fatalf("truncate trims = %q, want Pen", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Fatalf("truncate limit<=3 = %q, want abc", got)
	}
	if got := truncate("Fountain pen", 8); got != "Fount..." {
		t.Fatalf("truncate = %q, want Fount...", got)
	}
}

func TestPadding(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padLeft("ab", 4); got != "  ab" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padLeft("abcdef", 4); got != "abcdef" {
		t.Fatalf("padLeft overflow = %q", got)
	}
}

func TestClampAndWindow(t *testing.T) {
	if got := clamp(5, 3); got != 2 {
		t.Fatalf("clamp(5,3) = %d, want 2", got)
	}
	if got := clamp(-1, 3); got != 0 {
		t.Fatalf("clamp(-1,3) = %d, want 0", got)
	}
	if got := clamp(2, 0); got != 0 {
		t.Fatalf("clamp(2,0) = %d, want 0", got)
	}

	start, end := window(9, 20, 5)
	if start != 5 || end != 10 {
		t.Fatalf("window(9,20,5) = [%d,%d), want [5,10)", start, end)
	}
	start, end = window(1, 3, 5)
	if start != 0 || end != 3 {
		t.Fatalf("window(1,3,5) = [%d,%d), want [0,3)", start, end)
	}
}

func TestStockLabel(t *testing.T) {
	if got := stockLabel(0); got != "out of stock" {
		t.Fatalf("stockLabel(0) = %q", got)
	}
	if got := stockLabel(7); got != "7" {
		t.Fatalf("stockLabel(7) = %q", got)
	}
}
