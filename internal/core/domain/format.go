package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const maxFilenameLen = 100

var (
	nonAlnum    = regexp.MustCompile(`[^A-Za-z0-9]`)
	underscores = regexp.MustCompile(`_+`)
)

// SanitizeFilename makes a title safe for use in filenames and headers:
// every character outside [A-Za-z0-9] becomes "_", runs of "_" collapse to
// one, and the result is capped at 100 characters.
func SanitizeFilename(title string) string {
	s := nonAlnum.ReplaceAllString(title, "_")
	s = underscores.ReplaceAllString(s, "_")
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return s
}

// FormatBytes renders a byte count as a human-readable label.
// Zero or negative counts render as "Unknown".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "Unknown"
	}
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}

// FormatDuration renders a duration in seconds as "M:SS" or "H:MM:SS".
// Zero or negative durations render as "Unknown".
func FormatDuration(seconds float64) string {
	total := int(seconds)
	if total <= 0 {
		return "Unknown"
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// TitleFromURL derives a fallback title from the last non-empty path segment
// of a URL, or "video" when there is none.
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "video"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return "video"
}
