package driver

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

const jsonIndent = "    "

// jsonAPI sorts map keys and keeps numbers as written when parsing
// documents, so that re-encoding a stored document is lossless.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	UseNumber:              true,
	ValidateJsonRawMessage: true,
}.Froze()

// JSON stores values as indented JSON with sorted object keys.
// A string, []byte or json.RawMessage is taken to be a JSON document
// and is re-encoded in canonical form.
type JSON struct{}

var _ Driver = JSON{}

func (JSON) Name() string {
	return "json"
}

func (JSON) Extension() string {
	return "json"
}

func (d JSON) Serialize(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return d.canonical([]byte(t))
	case []byte:
		return d.canonical(t)
	case json.RawMessage:
		return d.canonical(t)
	}
	if err := checkValue(v, true); err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return d.encode(v)
}

func (d JSON) Match(expected string, actual any) error {
	return matchSerialized(d, expected, actual)
}

// canonical parses a JSON document and re-encodes it
func (d JSON) canonical(doc []byte) (string, error) {
	var v any
	if err := jsonAPI.Unmarshal(doc, &v); err != nil {
		return "", newSerializationError(d.Name(), doc, err)
	}
	return d.encode(v)
}

func (d JSON) encode(v any) (string, error) {
	b, err := jsonAPI.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return string(b) + "\n", nil
}
