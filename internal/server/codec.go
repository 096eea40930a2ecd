package server

import (
	"encoding/json"
)

// jsonCodec lets Connect carry plain Go structs as JSON. It takes over the
// "json" name from the built-in protojson codec.
type jsonCodec struct{}

func (jsonCodec) Name() string {
	return "json"
}

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	// an empty body is an empty request
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
