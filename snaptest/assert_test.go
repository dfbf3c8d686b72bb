package snaptest

import (
	"context"
	"errors"
	"testing"

	"github.com/PowerDNS/simpleblob"
	"github.com/PowerDNS/simpleblob/backends/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"pgregory.net/rapid"

	"github.com/PowerDNS/snapshots/driver"
	"github.com/PowerDNS/snapshots/snapshot"
)

var errBroken = errors.New("broken backend")

// backend counts stores and fails the operations that are switched on
type backend struct {
	*memory.Backend
	stores                        atomic.Int64
	failList, failLoad, failStore bool
}

func newBackend() *backend {
	return &backend{Backend: memory.New()}
}

func (b *backend) List(ctx context.Context, prefix string) (simpleblob.BlobList, error) {
	if b.failList {
		return nil, errBroken
	}
	return b.Backend.List(ctx, prefix)
}

func (b *backend) Load(ctx context.Context, name string) ([]byte, error) {
	if b.failLoad {
		return nil, errBroken
	}
	return b.Backend.Load(ctx, name)
}

func (b *backend) Store(ctx context.Context, name string, data []byte) error {
	if b.failStore {
		return errBroken
	}
	b.stores.Inc()
	return b.Backend.Store(ctx, name, data)
}

func load(t *testing.T, st simpleblob.Interface, name string) string {
	data, err := st.Load(context.Background(), name)
	require.NoError(t, err)
	return string(data)
}

func TestAssert_Workflow(t *testing.T) {
	ctx := context.Background()
	st := newBackend()
	s := snapshot.New("Foo__test_bar", "/snaps", driver.JSON{}, st)
	const name = "Foo__test_bar.snap.json"

	// First run
	outcome, err := Assert(ctx, s, map[string]int{"a": 1}, false)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.True(t, outcome.Incomplete())
	assert.Equal(t, "{\n    \"a\": 1\n}\n", load(t, st, name))

	// Same value
	outcome, err = Assert(ctx, s, map[string]int{"a": 1}, false)
	require.NoError(t, err)
	assert.Equal(t, Matched, outcome)
	assert.False(t, outcome.Incomplete())

	// Changed value without update
	_, err = Assert(ctx, s, map[string]int{"a": 2}, false)
	require.Error(t, err)
	var me *driver.MismatchError
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Diff(), `"a": 2`)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", load(t, st, name), "must not be rewritten")

	// Changed value with update
	outcome, err = Assert(ctx, s, map[string]int{"a": 2}, true)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, "{\n    \"a\": 2\n}\n", load(t, st, name))

	// Matching value with update
	stores := st.stores.Load()
	outcome, err = Assert(ctx, s, map[string]int{"a": 2}, true)
	require.NoError(t, err)
	assert.Equal(t, Matched, outcome)
	assert.Equal(t, stores, st.stores.Load(), "matching snapshot must not be stored")
}

func TestAssert_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(b *backend)
		actual any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "list",
			setup:  func(b *backend) { b.failList = true },
			actual: "x",
			check: func(t *testing.T, err error) {
				assert.True(t, snapshot.IsStorage(err))
			},
		},
		{
			name:   "load",
			setup:  func(b *backend) { b.failLoad = true },
			actual: "y",
			check: func(t *testing.T, err error) {
				assert.True(t, snapshot.IsStorage(err))
				assert.False(t, driver.IsMismatch(err))
			},
		},
		{
			name:   "store",
			setup:  func(b *backend) { b.failStore = true },
			actual: "y",
			check: func(t *testing.T, err error) {
				assert.True(t, snapshot.IsStorage(err))
				assert.ErrorIs(t, err, errBroken)
			},
		},
		{
			name:   "serialization",
			setup:  func(b *backend) {},
			actual: func() {},
			check: func(t *testing.T, err error) {
				assert.True(t, driver.IsSerialization(err))
				assert.False(t, driver.IsMismatch(err))
			},
		},
	}
	for _, tt := range tests {
		for _, update := range []bool{false, true} {
			t.Run(tt.name, func(t *testing.T) {
				st := newBackend()
				s := snapshot.New("T", "", driver.Var{}, st)
				_, err := Assert(ctx, s, "x", false)
				require.NoError(t, err)
				stores := st.stores.Load()

				tt.setup(st)
				_, err = Assert(ctx, s, tt.actual, update)
				require.Error(t, err)
				tt.check(t, err)
				assert.Equal(t, stores, st.stores.Load())
			})
		}
	}
}

func TestAssert_CreateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		st := newBackend()
		st.failList = true
		s := snapshot.New("T", "", driver.Var{}, st)
		_, err := Assert(ctx, s, "x", true)
		assert.True(t, snapshot.IsStorage(err))
		assert.Zero(t, st.stores.Load(), "list error must not be treated as absent")
	})

	t.Run("serialization", func(t *testing.T) {
		st := newBackend()
		s := snapshot.New("T", "", driver.Var{}, st)
		_, err := Assert(ctx, s, make(chan int), false)
		assert.True(t, driver.IsSerialization(err))
		exists, err := s.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestAssert_Drivers(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		d      driver.Driver
		value  any
		change any
	}{
		{driver.Var{}, map[string]int{"a": 1}, map[string]int{"a": 2}},
		{driver.JSON{}, map[string]int{"a": 1}, map[string]int{"a": 2}},
		{driver.YAML{}, map[string]int{"a": 1}, map[string]int{"a": 2}},
		{driver.Text{}, "one", "two"},
		{driver.XML{}, "<a><b>1</b></a>", "<a><b>2</b></a>"},
		{driver.Digest(driver.JSON{}), []int{1, 2}, []int{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.d.Name(), func(t *testing.T) {
			st := newBackend()
			s := snapshot.New("T", "", tt.d, st)

			outcome, err := Assert(ctx, s, tt.value, false)
			require.NoError(t, err)
			assert.Equal(t, Created, outcome)

			outcome, err = Assert(ctx, s, tt.value, false)
			require.NoError(t, err)
			assert.Equal(t, Matched, outcome)

			_, err = Assert(ctx, s, tt.change, false)
			assert.True(t, driver.IsMismatch(err))

			outcome, err = Assert(ctx, s, tt.change, true)
			require.NoError(t, err)
			assert.Equal(t, Updated, outcome)

			outcome, err = Assert(ctx, s, tt.change, false)
			require.NoError(t, err)
			assert.Equal(t, Matched, outcome)
		})
	}
}

func TestAssert_Idempotent(t *testing.T) {
	ctx := context.Background()
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.MapOf(rapid.StringMatching(`[a-z]{1,8}`), rapid.Int()).Draw(t, "value")
		update := rapid.Bool().Draw(t, "update")

		st := newBackend()
		s := snapshot.New("T", "", driver.JSON{}, st)
		outcome, err := Assert(ctx, s, v, update)
		if err != nil || outcome != Created {
			t.Fatalf("first assertion: %v, %v", outcome, err)
		}
		for i := 0; i < 3; i++ {
			outcome, err = Assert(ctx, s, v, update)
			if err != nil || outcome != Matched {
				t.Fatalf("assertion %d: %v, %v", i, outcome, err)
			}
		}
		if n := st.stores.Load(); n != 1 {
			t.Fatalf("stored %d times", n)
		}
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
