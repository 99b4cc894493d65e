package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Konsultn-Engineering/erpcall/attribute"
)

type attrJSON struct {
	Name   string          `json:"name"`
	Values json.RawMessage `json:"values"`
}

type secretJSON struct {
	Secret *string `json:"secret"`
}

// decodeAttributes reads a JSON array of {"name", "values"} objects. A null
// or missing "values" is an explicit absence; {"secret": "..."} elements
// become guarded strings.
func decodeAttributes(r io.Reader) ([]attribute.Attribute, error) {
	var raw []attrJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}

	attrs := make([]attribute.Attribute, 0, len(raw))
	for i, a := range raw {
		if a.Name == "" {
			return nil, fmt.Errorf("attribute %d: name is required", i)
		}
		if len(a.Values) == 0 || bytes.Equal(bytes.TrimSpace(a.Values), []byte("null")) {
			attrs = append(attrs, attribute.Null(a.Name))
			continue
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(a.Values, &elems); err != nil {
			return nil, fmt.Errorf("attribute %s: values must be an array: %w", a.Name, err)
		}
		values := make([]any, len(elems))
		for j, e := range elems {
			v, err := decodeValue(e)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: value %d: %w", a.Name, j, err)
			}
			values[j] = v
		}
		attrs = append(attrs, attribute.New(a.Name, values...))
	}
	return attrs, nil
}

func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var s secretJSON
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		if s.Secret == nil {
			return nil, fmt.Errorf("object values must be {\"secret\": ...}")
		}
		return attribute.NewGuardedString(*s.Secret), nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
