package metalava

// Optional holds a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some wraps value as present.
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value when present, fallback otherwise.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}
