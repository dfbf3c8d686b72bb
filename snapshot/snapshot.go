package snapshot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/PowerDNS/simpleblob"
	"github.com/pkg/errors"

	"github.com/PowerDNS/snapshots/driver"
)

// StorageError is returned when the snapshot blob cannot be listed, read or
// written. It is never turned into a create or update.
type StorageError struct {
	Op   string // "list", "load" or "store"
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorage reports if err is or wraps a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// Snapshot is one stored artifact, identified by an id within a directory.
// It is cheap to create and is meant to be created for every assertion.
type Snapshot struct {
	id        string
	directory string
	driver    driver.Driver
	st        simpleblob.Interface
}

// New returns a Snapshot for id, stored in st. The directory is the location
// st is rooted at and is only used to report the file name.
func New(id, directory string, d driver.Driver, st simpleblob.Interface) *Snapshot {
	return &Snapshot{
		id:        id,
		directory: directory,
		driver:    d,
		st:        st,
	}
}

func (s *Snapshot) ID() string {
	return s.id
}

func (s *Snapshot) Directory() string {
	return s.directory
}

func (s *Snapshot) Driver() driver.Driver {
	return s.driver
}

// Name is the blob name within the directory
func (s *Snapshot) Name() string {
	return FileName(s.id, s.driver.Extension())
}

// Filename is the full path of the snapshot file
func (s *Snapshot) Filename() string {
	return filepath.Join(s.directory, s.Name())
}

// Exists checks if the snapshot has been stored before. It only lists the
// directory and has no side effects. A blob that exists but cannot be read
// is reported by Load as a *StorageError.
func (s *Snapshot) Exists(ctx context.Context) (bool, error) {
	name := s.Name()
	ls, err := s.st.List(ctx, name)
	if err != nil {
		return false, &StorageError{Op: "list", Name: name, Err: err}
	}
	for _, b := range ls {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Create serializes v and stores it, replacing any previous snapshot.
func (s *Snapshot) Create(ctx context.Context, v any) error {
	text, err := s.driver.Serialize(v)
	if err != nil {
		return err
	}
	name := s.Name()
	if err := s.st.Store(ctx, name, []byte(text)); err != nil {
		return &StorageError{Op: "store", Name: name, Err: err}
	}
	return nil
}

// Load returns the stored text.
func (s *Snapshot) Load(ctx context.Context) (string, error) {
	name := s.Name()
	data, err := s.st.Load(ctx, name)
	if err != nil {
		return "", &StorageError{Op: "load", Name: name, Err: err}
	}
	return string(data), nil
}

// AssertMatches compares the stored text against v using the driver. It
// returns a *driver.MismatchError when they differ.
func (s *Snapshot) AssertMatches(ctx context.Context, v any) error {
	expected, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.driver.Match(expected, v)
}
