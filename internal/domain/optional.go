package domain

import "encoding/json"

// Optional carries one field of a partial update. It distinguishes a field
// that was absent (Set false) from one explicitly set to null (Set and Null)
// and from one set to a value, including zero values such as false or "".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked by encoding/json when the field is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// HasValue reports whether a non-null value was supplied.
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// applyNullable merges o into a nullable field.
func applyNullable[T any](o Optional[T], dst **T) {
	if !o.Set {
		return
	}
	if o.Null {
		*dst = nil
		return
	}
	v := o.Value
	*dst = &v
}

// applyRequired merges o into a non-nullable field; null is rejected.
func applyRequired[T any](o Optional[T], dst *T) error {
	if !o.Set {
		return nil
	}
	if o.Null {
		return ErrNullNotAllowed
	}
	*dst = o.Value
	return nil
}
