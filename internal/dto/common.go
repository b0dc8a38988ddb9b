package dto

import "time"

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339
)

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateTimeLayout)
}
