package domain

import (
	"bytes"
	"encoding/json"
)

type optState uint8

const (
	optAbsent optState = iota
	optNull
	optSet
)

// Opt holds a value that is absent, explicitly null, or set.
// The zero value is absent. Absent fields tagged `omitzero` are left out of
// the JSON output while null fields are written as null; the metrics model
// relies on that difference.
type Opt[T any] struct {
	state optState
	value T
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{state: optSet, value: v}
}

// Null returns an Opt that is present but explicitly null.
func Null[T any]() Opt[T] {
	return Opt[T]{state: optNull}
}

// Present reports whether the value is set or null.
func (o Opt[T]) Present() bool { return o.state != optAbsent }

// IsNull reports whether the value is explicitly null.
func (o Opt[T]) IsNull() bool { return o.state == optNull }

// IsZero reports whether the value is absent. Used by `omitzero`.
func (o Opt[T]) IsZero() bool { return o.state == optAbsent }

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.state == optSet
}

// Or returns the value when set, otherwise def.
func (o Opt[T]) Or(def T) T {
	if o.state == optSet {
		return o.value
	}
	return def
}

// MarshalJSON writes null for absent and null values.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if o.state != optSet {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null into a null Opt and anything else into a set Opt.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
