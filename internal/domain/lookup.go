package domain

// Lookup carries the outcome of one external lookup: a value or a classified error.
type Lookup[T any] struct {
	Value T
	Err   error
}

// Ok reports whether the lookup succeeded.
func (l Lookup[T]) Ok() bool {
	return l.Err == nil
}

// Resolve wraps a (value, error) pair.
func Resolve[T any](v T, err error) Lookup[T] {
	return Lookup[T]{Value: v, Err: err}
}
