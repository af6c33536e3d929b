// Package optional provides a value that tells an absent JSON field apart from
// an explicit null, for partial updates.
package optional

import (
	"encoding/json"
)

// Value is unset (field absent), null (Set without Valid) or holds V.
type Value[T any] struct {
	Set   bool
	Valid bool
	V     T
}

func Of[T any](v T) Value[T] {
	return Value[T]{Set: true, Valid: true, V: v}
}

func Null[T any]() Value[T] {
	return Value[T]{Set: true}
}

// FromPtr returns Null for nil and Of(*p) otherwise.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Null[T]()
	}

	return Of(*p)
}

// IsZero reports whether the field was absent. It makes `omitzero` drop unset values.
func (v Value[T]) IsZero() bool {
	return !v.Set
}

func (v Value[T]) Ptr() *T {
	if !v.Valid {
		return nil
	}

	return new(v.V)
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Set = true

	if string(data) == "null" {
		var zero T
		v.V = zero
		v.Valid = false

		return nil
	}

	if err := json.Unmarshal(data, &v.V); err != nil {
		return err
	}

	v.Valid = true

	return nil
}

func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(v.V)
}
