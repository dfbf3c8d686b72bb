package logger

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	LogLevels     = []string{"debug", "info", "warning", "error", "fatal"}
	LogFormats    = []string{"human", "logfmt", "json"}
	LogTimestamps = []string{"short", "disable", "full"}
)

// Config configures the logger used by snapshot assertions and the CLI
type Config struct {
	Level     string `yaml:"level"`     // One of LogLevels
	Format    string `yaml:"format"`    // One of LogFormats
	Timestamp string `yaml:"timestamp"` // One of LogTimestamps, empty means short
}

// DefaultConfig is quiet enough for a test run: only creations, updates and
// failures are logged at info level.
var DefaultConfig = Config{
	Level:     "info",
	Format:    "human",
	Timestamp: "short",
}

// FlagConfig holds the values of the log flags. Unset flags stay empty, so
// Merge only overrides what was given on the command line.
var FlagConfig = Config{}

// StringVarFlagFunc has the signature of (*pflag.FlagSet).StringVar
type StringVarFlagFunc func(p *string, name, value, usage string)

// option describes one setting for flags and validation
type option struct {
	key     string
	flag    string
	field   func(c *Config) *string
	options []string
}

var settings = []option{
	{"log.level", "log-level", func(c *Config) *string { return &c.Level }, LogLevels},
	{"log.format", "log-format", func(c *Config) *string { return &c.Format }, LogFormats},
	{"log.timestamp", "log-timestamp", func(c *Config) *string { return &c.Timestamp }, LogTimestamps},
}

// RegisterFlagsWith registers the log flags with any flag package that
// offers a StringVar, like cobra's persistent flags.
func RegisterFlagsWith(stringVar StringVarFlagFunc) {
	def := DefaultConfig
	for _, s := range settings {
		usage := fmt.Sprintf("Log %s (default: %s; options: %s)",
			strings.TrimPrefix(s.key, "log."), *s.field(&def), strings.Join(s.options, ", "))
		stringVar(s.field(&FlagConfig), s.flag, "", usage)
	}
}

// Check validates the settings. An empty timestamp is allowed.
func (c Config) Check() error {
	for _, s := range settings {
		v := *s.field(&c)
		if v == "" && s.key == "log.timestamp" {
			continue
		}
		if !lo.Contains(s.options, v) {
			return errors.Errorf("%s: must be one of: %s", s.key, strings.Join(s.options, ", "))
		}
	}
	return nil
}

// Merge returns c with every non-empty setting of o applied on top
func (c Config) Merge(o Config) Config {
	for _, s := range settings {
		if v := *s.field(&o); v != "" {
			*s.field(&c) = v
		}
	}
	return c
}

// Configure applies the Config to the standard logrus logger
func Configure(c Config) {
	Apply(logrus.StandardLogger(), c)
}

// Apply sets the formatter and level of l. An unknown format keeps the
// current formatter.
func Apply(l *logrus.Logger, c Config) {
	if f := newFormatter(c); f != nil {
		l.SetFormatter(f)
	}
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		l.Warnf("Ignoring invalid log level: %s", c.Level)
		return
	}
	l.SetLevel(level)
}

func newFormatter(c Config) logrus.Formatter {
	noTimestamp := c.Timestamp == "disable"
	text := func(colors bool) *logrus.TextFormatter {
		return &logrus.TextFormatter{
			DisableColors:    !colors,
			DisableTimestamp: noTimestamp,
			FullTimestamp:    c.Timestamp == "full",
		}
	}
	switch c.Format {
	case "json":
		return &logrus.JSONFormatter{DisableTimestamp: noTimestamp}
	case "logfmt":
		return text(false)
	case "human":
		return &NamespaceFormatter{Parent: text(true)}
	}
	return nil
}
