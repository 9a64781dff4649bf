package domain

import "encoding/json"

// IDList is a list of entity ids that tolerates the two shapes the backend
// serializes reference fields in: a native JSON array of numbers, or a JSON
// string containing an encoded array (legacy rows store the field as text).
// Anything unparseable normalizes to an empty list instead of an error, so a
// malformed reference field reads as "no references".
type IDList []int64

// UnmarshalJSON accepts `[1,2]`, `"[1,2]"`, `null`, and garbage. Only the
// first two produce ids.
func (l *IDList) UnmarshalJSON(data []byte) error {
	*l = nil

	var ids []int64
	if err := json.Unmarshal(data, &ids); err == nil {
		*l = ids
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	*l = ids
	return nil
}

// MarshalJSON always emits the canonical native-array form.
func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int64(l))
}

// Contains reports whether id is in the list.
func (l IDList) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}
