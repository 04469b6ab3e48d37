// Package options implements generic functional options with named errors.
package options

import "fmt"

// Option configures a target of type T.
type Option[T any] interface {
	Name() string
	apply(T) error
}

// Func is an Option backed by a function.
type Func[T any] struct {
	name      string
	applyFunc func(T) error
}

// Name returns the option name used in error messages.
func (f *Func[T]) Name() string {
	return f.name
}

func (f *Func[T]) apply(target T) error {
	return f.applyFunc(target)
}

// New creates a named option from a function that may reject its input.
func New[T any](name string, fn func(T) error) *Func[T] {
	return &Func[T]{name: name, applyFunc: fn}
}

// NoError creates a named option from a function that cannot fail.
func NoError[T any](name string, fn func(T)) *Func[T] {
	return &Func[T]{
		name: name,
		applyFunc: func(target T) error {
			fn(target)
			return nil
		},
	}
}

// Apply applies opts to target in order and stops at the first failure.
// The returned error names the failing option and wraps its cause.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return fmt.Errorf("option %s: %w", opt.Name(), err)
		}
	}

	return nil
}
