// Package logger configures logrus for snapshot tests and the CLI.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NamespaceFormatter is a logrus formatter that adds the 'snapshot' field to
// a log prefix for nicer formatted text output.
type NamespaceFormatter struct {
	Parent logrus.Formatter
}

// Format implements logrus.Formatter
func (f *NamespaceFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if id, ok := entry.Data["snapshot"].(string); ok {
		// Do not modify the caller's entry, other hooks may see it
		e := *entry
		e.Message = fmt.Sprintf("[%-24s] %s", id, entry.Message)
		return f.Parent.Format(&e)
	}
	return f.Parent.Format(entry)
}
