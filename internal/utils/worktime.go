package utils

import (
	"fmt"
	"time"
)

// FormatWorkTime renders the time worked between clock-in and clock-out as
// "HH:MM". Negative spans clamp to zero; this is display-only, nothing
// derived here is stored.
func FormatWorkTime(clockIn, clockOut time.Time) string {
	minutes := int(clockOut.Sub(clockIn).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
