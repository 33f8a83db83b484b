package domain

import "strings"

// Message is a flow message as delivered by the host: an arbitrary nested
// mapping with conventional "_msgid", "topic" and "payload" fields.
type Message map[string]any

func (m Message) Payload() any {
	if m == nil {
		return nil
	}
	return m["payload"]
}

// Lookup walks a dot separated path through nested mappings. A literal dot
// inside a field name cannot be addressed.
func (m Message) Lookup(path string) (any, bool) {
	if m == nil || path == "" {
		return nil, false
	}
	var cur any = map[string]any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	if m == nil {
		return nil
	}
	out := make(Message, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies mappings and slices; every other value is returned
// as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = CloneValue(inner)
		}
		return out
	case Message:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = CloneValue(inner)
		}
		return out
	}
	return v
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, t != nil
	case Message:
		return t, t != nil
	}
	return nil, false
}

// AsMap reports whether v is a mapping usable as a message payload.
func AsMap(v any) (map[string]any, bool) {
	return asMap(v)
}
