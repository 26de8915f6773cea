package models

import "encoding/json"

// Optional distinguishes a JSON field that was omitted from one that was
// explicitly null. Partial goal updates need the distinction: null clears a
// nullable field, absence leaves it untouched.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
