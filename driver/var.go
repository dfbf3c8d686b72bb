package driver

import (
	"fmt"
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

// dumpConfig produces a stable dump: map keys are sorted and no memory
// addresses or capacities are printed.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisablePointerMethods:   true,
}

// Var is the default driver. It stores a plain text dump of any Go value,
// including unexported fields, under the bare ".snap" extension.
type Var struct{}

var _ Driver = Var{}

func (Var) Name() string {
	return "var"
}

func (Var) Extension() string {
	return ""
}

func (d Var) Serialize(v any) (string, error) {
	// The dump of these kinds is their address
	if err := checkValue(v, false, reflect.Func, reflect.Chan, reflect.UnsafePointer); err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return dumpConfig.Sdump(v), nil
}

func (d Var) Match(expected string, actual any) error {
	return matchSerialized(d, expected, actual)
}

// Text stores strings verbatim. It is meant for output that is already text,
// like rendered templates or command output.
type Text struct{}

var _ Driver = Text{}

func (Text) Name() string {
	return "text"
}

func (Text) Extension() string {
	return "txt"
}

func (d Text) Serialize(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", newSerializationError(d.Name(), v,
			fmt.Errorf("expected string, []byte or fmt.Stringer"))
	}
}

func (d Text) Match(expected string, actual any) error {
	return matchSerialized(d, expected, actual)
}
