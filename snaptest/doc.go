/*
Package snaptest makes snapshot assertions in Go tests.

	func TestRender(t *testing.T) {
		snaptest.MatchJSONSnapshot(t, render())
	}

The first run stores the serialized value in __snapshots__/TestRender.snap.json
next to the test file and skips the test, so that it is reported as
incomplete until the new snapshot has been reviewed and committed. Later runs
fail when the value no longer matches.

Snapshots that do not match are rewritten in update mode:

	go test ./... -update-snapshots
	SNAPSHOTS_UPDATE=1 go test ./...

Snapshots that match are never rewritten, also not in update mode. Storage
and serialization errors always fail the test.

The default Matcher reads the YAML config file named by SNAPSHOTS_CONFIG,
see the config package for the available settings.
*/
package snaptest
