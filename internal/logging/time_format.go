package logging

import "time"

const (
	clockLayout     = "15:04:05.000"
	timestampLayout = time.DateTime
	jsonTimeLayout  = "2006-01-02T15:04:05.000Z07:00"
)

// formatClock renders the console line prefix. A run rarely spans midnight,
// so the date is left out.
func formatClock(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(clockLayout)
}

// formatTimestamp renders time-valued attributes in full.
func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(timestampLayout)
}
