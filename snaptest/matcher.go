package snaptest

import (
	"context"
	"os"
	"sync"

	"github.com/PowerDNS/simpleblob"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/PowerDNS/snapshots/config"
	"github.com/PowerDNS/snapshots/config/logger"
	"github.com/PowerDNS/snapshots/driver"
	"github.com/PowerDNS/snapshots/snapshot"
	"github.com/PowerDNS/snapshots/snapshot/storage"
)

// Option changes how a Matcher makes an assertion. Options can be passed to
// New and to every Match call.
type Option func(o *options)

type options struct {
	conf    config.Config
	log     logrus.FieldLogger
	locator Locator
	st      simpleblob.Interface
	update  *bool
	driver  driver.Driver
	id      string
}

// WithDriver sets the driver. The default is driver.Var.
func WithDriver(d driver.Driver) Option {
	return func(o *options) {
		o.driver = d
	}
}

// WithID overrides the snapshot id derived from the test name. The id must
// pass snapshot.ValidateID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithDirectory overrides the configured snapshot directory. It has no effect
// with a custom Locator.
func WithDirectory(dir string) Option {
	return func(o *options) {
		o.conf.Directory = dir
	}
}

// WithUpdate forces update mode on or off
func WithUpdate(update bool) Option {
	return func(o *options) {
		o.update = &update
	}
}

// WithStorage stores snapshots in st instead of opening the configured
// storage for the snapshot directory.
func WithStorage(st simpleblob.Interface) Option {
	return func(o *options) {
		o.st = st
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

func WithLocator(l Locator) Option {
	return func(o *options) {
		o.locator = l
	}
}

func WithConfig(c config.Config) Option {
	return func(o *options) {
		o.conf = c
	}
}

// Matcher makes snapshot assertions. It is safe for use by parallel tests.
type Matcher struct {
	opts   options
	counts sync.Map // counter key -> *atomic.Int64
}

// New returns a Matcher using config.Default unless WithConfig is passed.
// The config is checked here, so that an invalid one is reported once.
func New(opts ...Option) (*Matcher, error) {
	o := options{
		conf: config.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.conf.Check(); err != nil {
		return nil, errors.Wrap(err, "check config")
	}
	if o.id != "" {
		if err := snapshot.ValidateID(o.id); err != nil {
			return nil, err
		}
	}
	if o.log == nil {
		o.log = newLogger(o.conf.Log)
	}
	return &Matcher{opts: o}, nil
}

func newLogger(c logger.Config) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	logger.Apply(l, c)
	return l
}

// MatchSnapshot asserts that actual matches the snapshot of the running test.
// A missing snapshot is created and the test is skipped, so that it shows up
// as incomplete until the snapshot has been reviewed.
func (m *Matcher) MatchSnapshot(t TestingT, actual any, opts ...Option) {
	t.Helper()

	o := m.opts
	for _, opt := range opts {
		opt(&o)
	}
	if len(opts) > 0 {
		if err := o.conf.Check(); err != nil {
			t.Fatalf("Snapshot: invalid config: %v", err)
			return
		}
	}
	if o.driver == nil {
		o.driver = driver.Var{}
	}
	if o.locator == nil {
		o.locator = SourceLocator{Dir: o.conf.Directory}
	}
	ctx := testContext(t)

	id := o.id
	if id == "" {
		id = o.locator.SnapshotID(t)
	}
	if err := snapshot.ValidateID(id); err != nil {
		t.Fatalf("Snapshot: %v", err)
		return
	}
	id = m.nextID(t, id)

	dir, err := o.locator.SnapshotDirectory(t)
	if err != nil {
		t.Fatalf("Snapshot %s: %v", id, err)
		return
	}
	st := o.st
	if st == nil {
		st, err = storage.Open(ctx, o.conf.Storage, dir)
		if err != nil {
			t.Fatalf("Snapshot %s: %v", id, err)
			return
		}
	}

	var update bool
	if o.update != nil {
		update = *o.update
	} else {
		update = UpdateRequested(o.conf, o.log)
	}

	s := snapshot.New(id, dir, o.driver, st)
	outcome, err := Assert(ctx, s, actual, update)
	observe(o.driver, outcome, err)

	log := o.log.WithFields(logrus.Fields{
		"snapshot": id,
		"file":     s.Filename(),
		"driver":   o.driver.Name(),
		"outcome":  outcomeLabel(outcome, err),
	})
	switch {
	case err != nil && driver.IsMismatch(err):
		log.Debug("Snapshot does not match")
	case err != nil:
		log.WithError(err).Warn("Snapshot assertion failed")
	case outcome.Incomplete():
		log.Infof("Snapshot %s", outcome)
	default:
		log.Debug("Snapshot matched")
	}

	Report(t, s, outcome, err)
}

// MatchJSON is MatchSnapshot using the JSON driver
func (m *Matcher) MatchJSON(t TestingT, actual any, opts ...Option) {
	t.Helper()
	m.MatchSnapshot(t, actual, prepend(WithDriver(driver.JSON{}), opts)...)
}

// MatchXML is MatchSnapshot using the XML driver
func (m *Matcher) MatchXML(t TestingT, actual any, opts ...Option) {
	t.Helper()
	m.MatchSnapshot(t, actual, prepend(WithDriver(driver.XML{}), opts)...)
}

// MatchYAML is MatchSnapshot using the YAML driver
func (m *Matcher) MatchYAML(t TestingT, actual any, opts ...Option) {
	t.Helper()
	m.MatchSnapshot(t, actual, prepend(WithDriver(driver.YAML{}), opts)...)
}

// MatchText is MatchSnapshot using the Text driver
func (m *Matcher) MatchText(t TestingT, actual any, opts ...Option) {
	t.Helper()
	m.MatchSnapshot(t, actual, prepend(WithDriver(driver.Text{}), opts)...)
}

func prepend(opt Option, opts []Option) []Option {
	return append([]Option{opt}, opts...)
}

// nextID adds a counter suffix to the id of every assertion after the first
// one with the same id in a test. The suffix cannot collide with the id of a
// subtest, see snapshot.WithCounter.
func (m *Matcher) nextID(t TestingT, id string) string {
	key := t.Name() + "\x00" + id
	v, loaded := m.counts.LoadOrStore(key, atomic.NewInt64(0))
	if !loaded {
		// Tests run again with -count must start at the bare id
		if c, ok := t.(interface{ Cleanup(func()) }); ok {
			c.Cleanup(func() { m.counts.Delete(key) })
		}
	}
	return snapshot.WithCounter(id, v.(*atomic.Int64).Inc())
}

func testContext(t TestingT) context.Context {
	if c, ok := t.(interface{ Context() context.Context }); ok {
		return c.Context()
	}
	return context.Background()
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
	defaultErr     error
)

// Default returns the Matcher used by the package level functions. It is
// configured from the file named by ConfigEnv, if set.
func Default() (*Matcher, error) {
	defaultOnce.Do(func() {
		c, err := loadConfig(os.Getenv(ConfigEnv))
		if err != nil {
			defaultErr = err
			return
		}
		defaultMatcher, defaultErr = New(WithConfig(c))
	})
	return defaultMatcher, defaultErr
}

// loadConfig returns the default config, updated from the YAML file at fpath
// when not empty.
func loadConfig(fpath string) (config.Config, error) {
	c := config.Default()
	if fpath != "" {
		if err := c.LoadYAMLFile(fpath, true); err != nil {
			return c, errors.Wrapf(err, "load %s", ConfigEnv)
		}
	}
	if err := c.Check(); err != nil {
		return c, errors.Wrap(err, "check config")
	}
	return c, nil
}

func mustDefault(t TestingT) *Matcher {
	t.Helper()
	m, err := Default()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
		return nil
	}
	return m
}

// MatchSnapshot asserts actual against the snapshot of the running test using
// the default Matcher.
func MatchSnapshot(t TestingT, actual any, opts ...Option) {
	t.Helper()
	if m := mustDefault(t); m != nil {
		m.MatchSnapshot(t, actual, opts...)
	}
}

func MatchJSONSnapshot(t TestingT, actual any, opts ...Option) {
	t.Helper()
	if m := mustDefault(t); m != nil {
		m.MatchJSON(t, actual, opts...)
	}
}

func MatchXMLSnapshot(t TestingT, actual any, opts ...Option) {
	t.Helper()
	if m := mustDefault(t); m != nil {
		m.MatchXML(t, actual, opts...)
	}
}

func MatchYAMLSnapshot(t TestingT, actual any, opts ...Option) {
	t.Helper()
	if m := mustDefault(t); m != nil {
		m.MatchYAML(t, actual, opts...)
	}
}

func MatchTextSnapshot(t TestingT, actual any, opts ...Option) {
	t.Helper()
	if m := mustDefault(t); m != nil {
		m.MatchText(t, actual, opts...)
	}
}
