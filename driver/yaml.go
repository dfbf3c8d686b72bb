package driver

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// YAML stores values as YAML with sorted map keys. A string or []byte is
// taken to be a YAML document and is re-encoded.
type YAML struct{}

var _ Driver = YAML{}

func (YAML) Name() string {
	return "yaml"
}

func (YAML) Extension() string {
	return "yaml"
}

func (d YAML) Serialize(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return d.canonical([]byte(t))
	case []byte:
		return d.canonical(t)
	}
	if err := checkValue(v, true); err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return d.encode(v)
}

func (d YAML) Match(expected string, actual any) error {
	return matchSerialized(d, expected, actual)
}

func (d YAML) canonical(doc []byte) (string, error) {
	var v any
	if err := yaml.UnmarshalStrict(doc, &v); err != nil {
		return "", newSerializationError(d.Name(), doc, err)
	}
	if v == nil {
		return "", newSerializationError(d.Name(), doc, fmt.Errorf("empty document"))
	}
	return d.encode(v)
}

func (d YAML) encode(v any) (out string, err error) {
	// yaml.v2 panics on some invalid input instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			err = newSerializationError(d.Name(), v, fmt.Errorf("%v", r))
		}
	}()
	b, err := yaml.Marshal(v)
	if err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return string(b), nil
}
