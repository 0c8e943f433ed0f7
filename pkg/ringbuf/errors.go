package ringbuf

import "errors"

var (
	// ErrInvalidCapacity is returned by constructors when the capacity is below 2.
	ErrInvalidCapacity = errors.New("ringbuf: capacity must be greater than 1")

	// ErrIndexOutOfRange is returned when a logical position is outside [0, Size()).
	ErrIndexOutOfRange = errors.New("ringbuf: index out of range")

	// ErrEmpty is returned when an operation needs at least one element.
	ErrEmpty = errors.New("ringbuf: buffer is empty")

	// ErrIteratorOutOfRange is returned when an iterator is moved outside
	// [0, Size()] or dereferenced outside [0, Size()).
	ErrIteratorOutOfRange = errors.New("ringbuf: iterator out of range")

	// ErrIteratorInvalidated is returned when an iterator is used after its
	// buffer was structurally modified, or when it was never bound to one.
	ErrIteratorInvalidated = errors.New("ringbuf: iterator invalidated")

	// errZeroBuffer is the panic value of PushBack on a Buffer that was not
	// created by a constructor.
	errZeroBuffer = errors.New("ringbuf: PushBack on a zero Buffer; create it with New, From or Filled")
)
