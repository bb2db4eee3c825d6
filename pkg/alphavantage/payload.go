package alphavantage

// String returns the string value at key, or "" when absent or not a string.
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Objects returns the list of JSON objects at key. Missing keys and
// non-list values return nil.
func (p Payload) Objects(key string) []map[string]any {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Object returns the nested JSON object at key, or nil when absent.
func (p Payload) Object(key string) Payload {
	obj, _ := p[key].(map[string]any)
	return Payload(obj)
}

// Without returns a copy of the payload with the given keys removed.
func (p Payload) Without(keys ...string) Payload {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	out := make(Payload, len(p))
	for k, v := range p {
		if !drop[k] {
			out[k] = v
		}
	}
	return out
}

// WithObjects returns a copy of the payload with key replaced by the given
// object list. Used to truncate report histories before prompting.
func (p Payload) WithObjects(key string, objs []map[string]any) Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	anys := make([]any, len(objs))
	for i, o := range objs {
		anys[i] = o
	}
	out[key] = anys
	return out
}
