// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/savegames/internal/model"
)

// FormatSize formats a byte count, e.g. 1536 -> "1.5 kB".
// Negative sizes mean the size could not be read.
func FormatSize(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(n))
}

// FormatAge formats t relative to now, e.g. "3 hours ago".
// The placeholder epoch date renders as "unknown".
func FormatAge(t, now time.Time) string {
	if t.IsZero() || t.Equal(model.Epoch) {
		return "unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDate formats t as a local timestamp.
func FormatDate(t time.Time) string {
	if t.IsZero() || t.Equal(model.Epoch) {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// FirstLine returns s up to its first newline.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
