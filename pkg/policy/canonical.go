package policy

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Canonical encodes v as JSON with object keys sorted and null members
// removed at every depth, so two logically identical queries encode to the
// same string no matter how their fields were ordered.
//
// Numbers are kept as written, so 10 and 10.0 stay distinct. A nil v encodes
// as "null".
func Canonical(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errors.Join(ErrCanonical, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return "", errors.Join(ErrCanonical, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding/json writes map keys in sorted order.
	if err := enc.Encode(dropNulls(tree)); err != nil {
		return "", errors.Join(ErrCanonical, err)
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = dropNulls(child)
		}
		return t
	default:
		return v
	}
}
