package snaptest

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/PowerDNS/snapshots/driver"
	"github.com/PowerDNS/snapshots/snapshot"
)

// TestingT is the subset of the [testing.TB] interface used by this package.
// Fatalf marks a failure, Skipf marks the test as incomplete.
type TestingT interface {
	Helper()
	Name() string
	Fatalf(format string, args ...any)
	Skipf(format string, args ...any)
}

var _ TestingT = (testing.TB)(nil)

// Report reports the result of Assert to the test.
func Report(t TestingT, s *snapshot.Snapshot, outcome Outcome, err error) {
	t.Helper()

	if err != nil {
		var me *driver.MismatchError
		switch {
		case errors.As(err, &me):
			t.Fatalf("Snapshot %s does not match %s (-expected +actual):\n%s",
				s.ID(), s.Filename(), me.Diff())
		case driver.IsSerialization(err):
			t.Fatalf("Snapshot %s: serialization error: %v", s.ID(), err)
		case snapshot.IsStorage(err):
			t.Fatalf("Snapshot %s: storage error: %v", s.ID(), err)
		default:
			t.Fatalf("Snapshot %s: %v", s.ID(), err)
		}
		return
	}

	switch outcome {
	case Created:
		t.Skipf("Snapshot created for %s", s.ID())
	case Updated:
		t.Skipf("Snapshot updated for %s", s.ID())
	}
}
