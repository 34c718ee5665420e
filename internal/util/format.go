// Package util provides small formatting helpers shared by the renderer and
// the command-line interface.
package util

import "fmt"

var sizeUnits = []string{"K", "M", "G", "T", "P"}

// FormatSize renders a byte count the way `tree -h` and `ls -h` do: plain
// bytes below 1024, otherwise a power-of-1024 unit suffix with one decimal
// place for values under ten. For example:
//
//   - 512 -> "512"
//   - 1024 -> "1.0K"
//   - 1536 -> "1.5K"
//   - 20480 -> "20K"
//   - 1048576 -> "1.0M"
func FormatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d", bytes)
	}

	value := float64(bytes)
	unit := ""
	for _, u := range sizeUnits {
		value /= 1024
		unit = u
		if value < 1024 {
			break
		}
	}

	if value < 9.95 {
		return fmt.Sprintf("%.1f%s", value, unit)
	}
	return fmt.Sprintf("%.0f%s", value, unit)
}

// Plural returns "1 directory" / "2 directories" style counts.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
