package models

// Optional distinguishes "field not mentioned" from "field set to a value",
// including the zero value. The zero Optional is unset.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether a value was provided.
func (o Optional[T]) IsSet() bool { return o.set }

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) { return o.value, o.set }

// ValueOr returns the value when set, otherwise def.
func (o Optional[T]) ValueOr(def T) T {
	if o.set {
		return o.value
	}
	return def
}
