package util //nolint:revive // package name util hosts shared formatting helpers for operator output

import "time"

// FormatJobDuration renders how long a scrape job ran. Jobs still RUNNING
// (no completion time) and clock-skewed rows render as "-".
func FormatJobDuration(createdAt time.Time, completedAt *time.Time) string {
	if completedAt == nil {
		return "-"
	}
	d := completedAt.Sub(createdAt)
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}
