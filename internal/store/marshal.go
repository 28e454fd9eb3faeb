package store

import (
	"encoding/json"
	"fmt"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/internal/canonical"
	"github.com/objectcentric/oced/ocedjson"
)

// marshalAttributes serializes event attributes to canonical JSON per
// RFC 8785. Canonical form makes the column byte-comparable: two
// serializations are equal iff the attribute maps are equal.
func marshalAttributes(attrs map[string]string) (string, error) {
	obj := make(map[string]any, len(attrs))
	for k, v := range attrs {
		obj[k] = v
	}
	data, err := canonical.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("marshal attributes: %w", err)
	}
	return string(data), nil
}

// unmarshalAttributes deserializes an attributes column.
func unmarshalAttributes(text string) (map[string]string, error) {
	var attrs map[string]string
	if err := json.Unmarshal([]byte(text), &attrs); err != nil {
		return nil, fmt.Errorf("unmarshal attributes: %w", err)
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	return attrs, nil
}

// marshalQualifiers serializes an ordered qualifier batch to canonical
// JSON per RFC 8785. The wire encoding already fixes the array order;
// canonicalization fixes key order and string escaping on top.
func marshalQualifiers(qs []oced.Qualifier) (string, error) {
	data, err := ocedjson.MarshalQualifiers(qs)
	if err != nil {
		return "", fmt.Errorf("marshal qualifiers: %w", err)
	}
	v, err := canonical.FromJSON(data)
	if err != nil {
		return "", fmt.Errorf("marshal qualifiers: %w", err)
	}
	out, err := canonical.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal qualifiers: %w", err)
	}
	return string(out), nil
}

// unmarshalQualifiers deserializes a qualifiers column.
func unmarshalQualifiers(text string) ([]oced.Qualifier, error) {
	qs, err := ocedjson.UnmarshalQualifiers([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("unmarshal qualifiers: %w", err)
	}
	return qs, nil
}
