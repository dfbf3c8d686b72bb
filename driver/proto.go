package driver

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// protoJSON uses the .proto field names, which do not change when the Go
// code is regenerated.
var protoJSON = protojson.MarshalOptions{
	UseProtoNames: true,
}

// Proto stores protobuf messages as canonical JSON. The protojson output is
// deliberately unstable between builds, so it is re-encoded with the JSON
// driver.
type Proto struct{}

var _ Driver = Proto{}

func (Proto) Name() string {
	return "proto"
}

func (Proto) Extension() string {
	return "pb.json"
}

func (d Proto) Serialize(v any) (string, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return "", newSerializationError(d.Name(), v,
			fmt.Errorf("expected proto.Message"))
	}
	b, err := protoJSON.Marshal(msg)
	if err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	out, err := JSON{}.Serialize(b)
	if err != nil {
		return "", newSerializationError(d.Name(), v, err)
	}
	return out, nil
}

func (d Proto) Match(expected string, actual any) error {
	return matchSerialized(d, expected, actual)
}
