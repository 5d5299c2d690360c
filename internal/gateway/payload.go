package gateway

import (
	"bytes"
	"encoding/json"
)

// listFields are the envelope keys probed, in order, when a list payload
// arrives wrapped in an object instead of as a bare array.
var listFields = []string{"content", "items", "data"}

var emptyList = json.RawMessage("[]")

// ToList normalizes a payload that is supposed to be a list. A bare array
// is returned as-is; an envelope object yields its first recognized list
// field; anything else degrades to an empty array. It never fails: a
// malformed list means "nothing to show", not a hard error. Callers that
// must distinguish empty from malformed can inspect the raw payload.
func ToList(payload json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return emptyList
	}
	if trimmed[0] == '[' {
		return trimmed
	}
	if trimmed[0] != '{' {
		return emptyList
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return emptyList
	}
	for _, field := range listFields {
		inner := bytes.TrimSpace(envelope[field])
		if len(inner) > 0 && inner[0] == '[' {
			return inner
		}
	}
	return emptyList
}
