package ringbuf

// Observer receives notifications about structural changes of a Buffer.
// Calls happen synchronously on the goroutine mutating the buffer.
type Observer interface {
	// Pushed is called after an element was appended.
	Pushed(size, capacity int)
	// Evicted is called when an append overwrote the oldest element.
	Evicted()
	// Popped is called after the oldest element was removed.
	Popped(size, capacity int)
	// Cleared is called after the buffer was reset to empty.
	Cleared(capacity int)
}

// EvictFunc is called with the element dropped by an overwriting PushBack.
type EvictFunc[T any] func(item T)

// Option configures a Buffer.
type Option[T any] func(*options[T])

type options[T any] struct {
	observer Observer
	onEvict  EvictFunc[T]
}

// WithObserver attaches an Observer. A nil observer is ignored.
func WithObserver[T any](o Observer) Option[T] {
	return func(opts *options[T]) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithEvictFunc sets a callback invoked with each element evicted by PushBack.
func WithEvictFunc[T any](fn EvictFunc[T]) Option[T] {
	return func(opts *options[T]) {
		opts.onEvict = fn
	}
}

func applyOptions[T any](opts ...Option[T]) options[T] {
	var o options[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
