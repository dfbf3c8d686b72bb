package snapshot

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Suffix is added to every snapshot id, before the driver extension
	Suffix = ".snap"

	// Separator joins the parts of an id, like a test and its subtests
	Separator = "__"

	// CounterSeparator comes before the number of a repeated snapshot in one
	// test, like TestFoo#2
	CounterSeparator = "#"
)

// FileName returns the name of the snapshot blob for an id and driver
// extension: "<id>.snap" or "<id>.snap.<ext>".
func FileName(id, ext string) string {
	if ext == "" {
		return id + Suffix
	}
	return id + Suffix + "." + ext
}

// ParseName parses a name returned by FileName.
func ParseName(name string) (NameInfo, error) {
	var empty NameInfo
	i := strings.LastIndex(name, Suffix)
	if i <= 0 {
		return empty, fmt.Errorf("invalid name: no %s suffix: %s", Suffix, name)
	}
	ni := NameInfo{
		FullName: name,
		ID:       name[:i],
	}
	rest := name[i+len(Suffix):]
	if rest != "" {
		ext, found := strings.CutPrefix(rest, ".")
		if !found || ext == "" {
			return empty, fmt.Errorf("invalid extension: %s", name)
		}
		ni.Extension = ext
	}
	return ni, nil
}

type NameInfo struct {
	FullName  string
	ID        string
	Extension string // "" or a driver extension, like "json"
}

// SanitizeID turns a test name into an id that is safe to use as a blob name.
// Distinct test names give distinct ids.
//
// Subtest separators become "__". Letters, digits, '-', '.' and single '_'
// are kept. A '_' that is next to another '_' or a '/' is escaped, so that
// "__" in an id always stands for a subtest separator. Spaces are treated
// like '_', as the testing package does. Any other byte, and a leading dot,
// is escaped as %XX.
func SanitizeID(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch == '/':
			sb.WriteString(Separator)
		case ch == '_' || ch == ' ':
			if isUnderscore(name, i-1) || isUnderscore(name, i+1) {
				escapeByte(&sb, '_')
			} else {
				sb.WriteByte('_')
			}
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			sb.WriteByte(ch)
		case ch == '-' || (ch == '.' && i > 0):
			sb.WriteByte(ch)
		default:
			escapeByte(&sb, ch)
		}
	}
	return sb.String()
}

// isUnderscore reports if the byte at i would be written as an underscore
func isUnderscore(name string, i int) bool {
	if i < 0 || i >= len(name) {
		return false
	}
	switch name[i] {
	case '_', ' ', '/':
		return true
	}
	return false
}

func escapeByte(sb *strings.Builder, ch byte) {
	_, _ = fmt.Fprintf(sb, "%%%02X", ch)
}

// ValidateID checks an id that was not produced by SanitizeID. It allows the
// characters SanitizeID keeps, without a leading dot.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("invalid id: empty")
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '_' || ch == '-' || ch == '%':
		case ch == '.' && i > 0:
		default:
			return fmt.Errorf("invalid id %q: character %q not allowed", id, ch)
		}
	}
	return nil
}

// WithCounter returns the id of the n-th snapshot with the same id in one
// test. CounterSeparator never occurs in an id, so the result cannot be
// the id of another test.
func WithCounter(id string, n int64) string {
	if n <= 1 {
		return id
	}
	return id + CounterSeparator + strconv.FormatInt(n, 10)
}
