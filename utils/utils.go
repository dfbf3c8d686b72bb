package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
)

// DisplayASCII represents a snapshot text as ascii. Newlines and tabs are
// kept, any other unsafe byte is replaced by a \xNN escape, so that stored
// control characters or invalid UTF-8 become visible.
func DisplayASCII(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, ch := range b {
		switch {
		case ch == '\n' || ch == '\t':
			sb.WriteByte(ch)
		case ch < 32 || ch > 126:
			_, _ = fmt.Fprintf(&sb, "\\x%02x", ch)
		case ch == '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// IsASCII reports if DisplayASCII would return b unchanged
func IsASCII(b []byte) bool {
	for _, ch := range b {
		if ch == '\n' || ch == '\t' {
			continue
		}
		if ch < 32 || ch > 126 || ch == '\\' {
			return false
		}
	}
	return true
}

// ByteSize returns a human readable size, like "1.5 KB"
func ByteSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return datasize.ByteSize(n).HumanReadable()
}

// TimeDiff returns the difference between two times, rounded to milliseconds.
func TimeDiff(t1, t0 time.Time) time.Duration {
	return t1.Sub(t0).Round(time.Millisecond)
}
