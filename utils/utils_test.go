package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayASCII(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want string
	}{
		{"empty", []byte{}, ""},
		{"nil", nil, ""},
		{"safe", []byte("abc"), "abc"},
		{"lines", []byte("abc\n\tdef\n"), "abc\n\tdef\n"},
		{"carriage-return", []byte("abc\r\n"), "abc\\x0d\n"},
		{"control", []byte("\x01abc"), "\\x01abc"},
		{"zero", []byte("\x00abc"), "\\x00abc"},
		{"high", []byte("\xF0abc"), "\\xf0abc"},
		{"backslash", []byte(`a\x01`), `a\\x01`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, DisplayASCII(tt.b), "DisplayASCII(%v)", tt.b)
			assert.Equal(t, tt.want == string(tt.b), IsASCII(tt.b))
		})
	}
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, "0 B", ByteSize(0))
	assert.Equal(t, "0 B", ByteSize(-1))
	assert.Equal(t, "512 B", ByteSize(512))
	assert.Contains(t, ByteSize(1536), "KB")
}

func TestTimeDiff(t *testing.T) {
	t0 := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1500*time.Millisecond, TimeDiff(t0.Add(1500400*time.Microsecond), t0))
}
