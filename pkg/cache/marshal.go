package cache

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Marshaler serializes cache values to and from bytes.
type Marshaler interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonMarshaler struct{}

func (jsonMarshaler) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrUnmarshal, err)
	}
	return nil
}

var jsonNull = []byte("null")

// isNull reports whether data is the JSON null literal. A cached null is a miss,
// so "not found" results are never served from the cache.
func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), jsonNull)
}
