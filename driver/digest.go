package driver

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	digestPrefix    = "digest+"
	digestExtension = "xxh64"
)

// Digest returns a driver that only stores the xxhash64 of the serialization
// by inner. This keeps large outputs out of the repository, at the cost of a
// less helpful diff.
func Digest(inner Driver) Driver {
	return digest{inner: inner}
}

type digest struct {
	inner Driver
}

func (d digest) Name() string {
	return digestPrefix + d.inner.Name()
}

func (d digest) Extension() string {
	ext := d.inner.Extension()
	if ext == "" {
		return digestExtension
	}
	return ext + "." + digestExtension
}

func (d digest) Serialize(v any) (string, error) {
	text, err := d.inner.Serialize(v)
	if err != nil {
		return "", err
	}
	return sum(text), nil
}

func (d digest) Match(expected string, actual any) error {
	text, err := d.inner.Serialize(actual)
	if err != nil {
		return err
	}
	got := sum(text)
	if got == expected {
		return nil
	}
	return &MismatchError{
		Driver:   d.Name(),
		Expected: expected,
		Actual:   got + "\n" + text,
	}
}

func sum(text string) string {
	return fmt.Sprintf("%s:%016x\n", digestExtension, xxhash.Sum64String(text))
}
