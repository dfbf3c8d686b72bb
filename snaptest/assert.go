package snaptest

import (
	"context"

	"github.com/PowerDNS/snapshots/driver"
	"github.com/PowerDNS/snapshots/snapshot"
)

// Outcome is the result of a snapshot assertion that did not fail
type Outcome int

const (
	// Matched means the stored snapshot matches the actual value
	Matched Outcome = iota
	// Created means there was no snapshot yet and one was stored
	Created
	// Updated means the snapshot did not match and was rewritten
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Incomplete reports if the test needs a human to review the snapshot
func (o Outcome) Incomplete() bool {
	return o == Created || o == Updated
}

// Assert checks actual against the stored snapshot s.
//
// Without a stored snapshot, one is created. Otherwise the snapshot must
// match. When update is set, a *driver.MismatchError is turned into a rewrite
// of the snapshot. Any other error is returned as is, also in update mode.
func Assert(ctx context.Context, s *snapshot.Snapshot, actual any, update bool) (Outcome, error) {
	exists, err := s.Exists(ctx)
	if err != nil {
		return Matched, err
	}
	if !exists {
		if err := s.Create(ctx, actual); err != nil {
			return Matched, err
		}
		return Created, nil
	}

	err = s.AssertMatches(ctx, actual)
	if err == nil {
		// A matching snapshot is never rewritten
		return Matched, nil
	}
	if !update || !driver.IsMismatch(err) {
		return Matched, err
	}

	if err := s.Create(ctx, actual); err != nil {
		return Matched, err
	}
	return Updated, nil
}
