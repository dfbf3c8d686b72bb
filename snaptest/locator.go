package snaptest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/PowerDNS/snapshots/snapshot"
)

// Locator determines the identity of the running test and where its
// snapshots live.
type Locator interface {
	// SnapshotID returns an id that is unique within the snapshot directory
	SnapshotID(t TestingT) string
	// SnapshotDirectory returns the absolute path of the snapshot directory
	SnapshotDirectory(t TestingT) (string, error)
}

// SourceLocator is the default Locator. The id is the sanitized test name,
// so that "TestFoo/bar" becomes "TestFoo__bar". The directory is Dir next to
// the _test.go file that made the assertion.
type SourceLocator struct {
	Dir string // absolute, or relative to the test source directory
}

func (l SourceLocator) SnapshotID(t TestingT) string {
	return snapshot.SanitizeID(t.Name())
}

func (l SourceLocator) SnapshotDirectory(t TestingT) (string, error) {
	if filepath.IsAbs(l.Dir) {
		return l.Dir, nil
	}
	if src := testSourceDir(); src != "" {
		return filepath.Join(src, l.Dir), nil
	}
	// Built with -trimpath or not called from a test file. The go tool runs
	// tests in the package directory.
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "snapshot directory")
	}
	return filepath.Join(wd, l.Dir), nil
}

// testSourceDir returns the directory of the first _test.go file on the
// call stack.
func testSourceDir() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if strings.HasSuffix(frame.File, "_test.go") && filepath.IsAbs(frame.File) {
			return filepath.Dir(frame.File)
		}
		if !more {
			return ""
		}
	}
}
