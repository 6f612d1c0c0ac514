package bsky

import (
	"encoding/json"
	"fmt"
)

type typeExtractor struct {
	Type string `json:"$type"`
}

func typeExtract(b []byte) (string, error) {
	var te typeExtractor
	if err := json.Unmarshal(b, &te); err != nil {
		return "", err
	}
	return te.Type, nil
}

// Marshals v as a JSON object with a leading "$type" field.
func marshalTyped(typ string, v any) ([]byte, error) {
	inner, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, fmt.Errorf("union member is not an object: %w", err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	t, _ := json.Marshal(typ)
	fields["$type"] = t
	return json.Marshal(fields)
}
