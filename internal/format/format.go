// Package format renders counts, times and sizes for display.
package format

import (
	"fmt"
	"time"
)

const suffixes = "KMGTPE"

// AbbreviateCount renders n with a metric suffix: 999 → "999", 1520 → "1.5K",
// 3400000 → "3.4M". Negative values are rendered as-is.
func AbbreviateCount(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	exp := 0
	div := 1.0
	for v := n; v >= 1000 && exp < len(suffixes); v /= 1000 {
		exp++
		div *= 1000
	}
	return fmt.Sprintf("%.1f%c", float64(n)/div, suffixes[exp-1])
}

// TimeAgo renders the time elapsed between t and now, e.g. "3d ago".
// A zero t renders as "unknown".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	duration := now.Sub(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	case duration < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	case duration < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	case duration < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(duration.Hours()/24/7))
	case duration < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(duration.Hours()/24/30))
	default:
		return fmt.Sprintf("%dy ago", int(duration.Hours()/24/365))
	}
}

// Since is TimeAgo relative to the current time.
func Since(t time.Time) string {
	return TimeAgo(t, time.Now())
}

// Dimensions renders a pixel size as "4000 × 3000".
func Dimensions(width, height int) string {
	if width <= 0 || height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%d × %d", width, height)
}

// Bytes renders a byte count with a binary unit: 512 → "512 B", 1536 → "1.5 KiB".
func Bytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(1024), 0
	for v := n / 1024; v >= 1024 && exp < len(suffixes)-1; v /= 1024 {
		div *= 1024
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), suffixes[exp])
}
