package utils

import (
	"time"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutStamp    = "20060102-150405"
)

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// FileStamp formats t for use inside generated file names.
func FileStamp(t time.Time) string {
	return t.In(time.Local).Format(layoutStamp)
}
