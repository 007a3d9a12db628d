package formatter

import (
	"encoding/json"
	"fmt"
	"io"
)

// Tokens renders a token count with a K suffix above a thousand.
func Tokens(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// Duration renders seconds as a human-readable duration.
func Duration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.0fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.0fm", seconds/60)
	default:
		return fmt.Sprintf("%.1fh", seconds/3600)
	}
}

// ShortID abbreviates a session identifier to n characters with an ellipsis.
func ShortID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n] + "..."
}

// Clip limits a display string to n characters with an ellipsis.
func Clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// JSON writes v as indented JSON, the -o json rendition of any report.
func JSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
