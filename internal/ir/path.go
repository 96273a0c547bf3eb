package ir

import (
	"fmt"
	"strings"
)

// Lookup resolves a dotted field path ("customer.id") inside obj.
func Lookup(obj IRObject, path string) (IRValue, bool) {
	var cur IRValue = obj
	for _, part := range strings.Split(path, ".") {
		o, ok := cur.(IRObject)
		if !ok {
			return nil, false
		}
		cur, ok = o[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// KeyOf returns the join key of a record: the canonical JSON of the value at
// path. A missing or null key field is an error.
func KeyOf(obj IRObject, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("key path is empty")
	}
	v, ok := Lookup(obj, path)
	if !ok {
		return "", fmt.Errorf("key field %q not found", path)
	}
	if _, isNull := v.(IRNull); isNull {
		return "", fmt.Errorf("key field %q is null", path)
	}
	b, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("key field %q: %w", path, err)
	}
	return string(b), nil
}
