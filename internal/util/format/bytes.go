// Package format renders sizes for the console and the history listing.
package format

import "strconv"

var units = []string{"KB", "MB", "GB", "TB", "PB"}

// HumanizeBytes renders a byte count in binary multiples with one decimal,
// e.g. 1536 -> "1.5 KB". A negative count stands for an unknown stream size
// and renders as "?".
func HumanizeBytes(b int64) string {
	if b < 0 {
		return "?"
	}
	if b < 1024 {
		return strconv.FormatInt(b, 10) + " B"
	}
	v := float64(b) / 1024
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + units[i]
}
