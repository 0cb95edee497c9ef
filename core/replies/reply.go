// Package replies normalizes the loosely shaped JSON replies returned by the
// transcription, relay and drafting services.
//
// Reply is the only place the untyped tree is inspected: every other package
// works with the Draft and transcript values extracted here. New reply shapes
// are supported by extending the lookup path lists, never by special-casing callers.
package replies

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reply is a collaborator reply decoded as an untyped JSON object.
type Reply map[string]any

// Decode parses body as a JSON object.
func Decode(body []byte) (Reply, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("reply is not valid JSON: %w", err)
	}

	object, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("reply is not a JSON object (got %T)", v)
	}
	return Reply(object), nil
}

// Lookup follows path through nested objects.
func (r Reply) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(r)
	for _, key := range path {
		object, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Pretty renders the reply as indented JSON for display.
func (r Reply) Pretty() string {
	if r == nil {
		return ""
	}
	out, err := json.MarshalIndent(map[string]any(r), "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(r))
	}
	return string(out)
}

func asObject(v any) (map[string]any, bool) {
	switch object := v.(type) {
	case map[string]any:
		return object, true
	case Reply:
		return object, true
	}
	return nil, false
}
