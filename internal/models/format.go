package models

import (
	"fmt"
	"time"
)

// FormatRelativeTime renders a capture instant relative to now. Records older
// than a week fall back to an absolute date. Pure function; callers recompute
// it on every read so the output tracks the current instant.
func FormatRelativeTime(ts *time.Time, now time.Time) string {
	if ts == nil {
		return "Unknown time"
	}

	elapsed := now.Sub(*ts)
	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	default:
		return ts.Format("Jan 2, 2006")
	}
}
