package utils

import (
	"testing"
	"time"
)

func TestFormatSalaryRange(t *testing.T) {
	cases := []struct {
		min, max int64
		want     string
	}{
		{0, 0, "negotiable"},
		{5_000_000, 0, "Rp5.000.000"},
		{0, 8_000_000, "up to Rp8.000.000"},
		{5_000_000, 8_500_000, "Rp5.000.000 - Rp8.500.000"},
		{7_000_000, 7_000_000, "Rp7.000.000"},
	}
	for _, tc := range cases {
		if got := FormatSalaryRange(tc.min, tc.max); got != tc.want {
			t.Fatalf("FormatSalaryRange(%d, %d) = %q, want %q", tc.min, tc.max, got, tc.want)
		}
	}
	if got := FormatRupiah(-1500); got != "-Rp1.500" {
		t.Fatalf("FormatRupiah(-1500) = %q", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  PT   Maju \t Jaya "); got != "PT Maju Jaya" {
		t.Fatalf("got %q", got)
	}
}

func TestPastDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	if PastDeadline("2026-03-10", now) {
		t.Fatalf("deadline day itself is still open")
	}
	if !PastDeadline("2026-03-09", now) {
		t.Fatalf("yesterday's deadline has passed")
	}
	if PastDeadline("", now) || PastDeadline("soon", now) {
		t.Fatalf("missing deadline never passes")
	}
	if FormatDateTime(time.Time{}) != "-" {
		t.Fatalf("zero time should render as -")
	}
}
