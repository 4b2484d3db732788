package models

import "encoding/json"

// CustomFields holds values of user-defined fields. Values are kept as raw
// JSON so anything the remote or an import produced survives a round trip.
type CustomFields map[string]json.RawMessage

// Clone returns a copy that never shares backing arrays with c. A nil map
// clones to an empty one.
func (c CustomFields) Clone() CustomFields {
	out := make(CustomFields, len(c))
	for k, v := range c {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// SetString stores s as a JSON string under key.
func (c CustomFields) SetString(key, s string) {
	b, _ := json.Marshal(s)
	c[key] = b
}

// String returns the value under key when it is a JSON string.
func (c CustomFields) String(key string) (string, bool) {
	raw, ok := c[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Keys returns the keys in unspecified order.
func (c CustomFields) Keys() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
