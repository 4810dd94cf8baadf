package utils

import (
	"fmt"
	"strings"
)

// FormatFileSize converts a byte length into a human-readable lower-case unit string.
func FormatFileSize(bytes int64) string {
	if bytes < 0 {
		return "0b"
	}
	units := []string{"b", "kb", "mb", "gb", "tb"}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(units)-1 {
		value /= 1024
		unitIndex++
	}
	if unitIndex == 0 {
		return fmt.Sprintf("%db", bytes)
	}
	if value < 10 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0") + units[unitIndex]
	}
	return fmt.Sprintf("%.0f%s", value, units[unitIndex])
}

// DescribeTotals renders the "3 files, 4.2kb" fragment used in completion messages.
// Skipped items are mentioned only when there are any.
func DescribeTotals(files int, bytes int64, skipped int) string {
	noun := "files"
	if files == 1 {
		noun = "file"
	}
	description := fmt.Sprintf("%d %s, %s", files, noun, FormatFileSize(bytes))
	if skipped > 0 {
		description += fmt.Sprintf(", %d skipped with errors", skipped)
	}
	return description
}
