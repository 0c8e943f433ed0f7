package ringbuf

import (
	"fmt"
	"strings"
)

// Buffer is a fixed-capacity circular buffer that overwrites its oldest
// element when full. The capacity is chosen at construction and never changes.
//
// Logical position 0 is always the oldest live element. A Buffer is not safe
// for concurrent use.
//
// A Buffer must be created with New, From or Filled. The zero value has no
// storage: it reports itself empty, but PushBack on it panics.
type Buffer[T any] struct {
	storage []T
	oldest  int // physical slot of logical position 0
	newest  int // physical slot of logical position count-1
	count   int
	gen     uint64 // bumped on every structural mutation
	opts    options[T]
}

// New returns an empty buffer holding at most capacity elements.
func New[T any](capacity int, opts ...Option[T]) (*Buffer[T], error) {
	if capacity < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer[T]{
		storage: make([]T, capacity),
		opts:    applyOptions(opts...),
	}, nil
}

// From returns a full buffer whose capacity is len(values). values[0] becomes
// the front and values[len(values)-1] the back. The slice is copied.
func From[T any](values []T, opts ...Option[T]) (*Buffer[T], error) {
	b, err := New(len(values), opts...)
	if err != nil {
		return nil, err
	}
	copy(b.storage, values)
	b.count = len(values)
	b.newest = len(values) - 1
	return b, nil
}

// Filled returns a full buffer with value replicated into every slot.
func Filled[T any](capacity int, value T, opts ...Option[T]) (*Buffer[T], error) {
	b, err := New(capacity, opts...)
	if err != nil {
		return nil, err
	}
	for i := range b.storage {
		b.storage[i] = value
	}
	b.count = capacity
	b.newest = capacity - 1
	return b, nil
}

// Size returns the number of live elements.
func (b *Buffer[T]) Size() int { return b.count }

// Capacity returns the fixed number of slots.
func (b *Buffer[T]) Capacity() int { return len(b.storage) }

// Empty reports whether the buffer holds no elements.
func (b *Buffer[T]) Empty() bool { return b.count == 0 }

// Full reports whether the next PushBack will evict.
func (b *Buffer[T]) Full() bool { return b.count == len(b.storage) }

// Clear drops all elements in O(1). Slots are not zeroed; they are
// overwritten by later pushes.
func (b *Buffer[T]) Clear() {
	b.count = 0
	b.oldest = 0
	b.newest = 0
	b.gen++
	if b.opts.observer != nil {
		b.opts.observer.Cleared(len(b.storage))
	}
}

// physical maps a logical position to its storage slot.
func (b *Buffer[T]) physical(logical int) int {
	return (b.oldest + logical) % len(b.storage)
}

func (b *Buffer[T]) inRange(pos int) bool {
	return pos >= 0 && pos < b.count
}

// Index returns the element at logical position pos without bounds checking
// against Size. The caller must ensure 0 <= pos < Size(); other positions
// return stale slot contents or panic.
func (b *Buffer[T]) Index(pos int) T {
	return b.storage[b.physical(pos)]
}

// Ref returns a pointer to the slot at logical position pos, with the same
// contract as Index. The pointer is valid until the buffer is mutated.
func (b *Buffer[T]) Ref(pos int) *T {
	return &b.storage[b.physical(pos)]
}

// At returns the element at logical position pos.
func (b *Buffer[T]) At(pos int) (T, error) {
	if !b.inRange(pos) {
		var zero T
		return zero, fmt.Errorf("%w: position %d, size %d", ErrIndexOutOfRange, pos, b.count)
	}
	return b.storage[b.physical(pos)], nil
}

// Set replaces the element at logical position pos.
func (b *Buffer[T]) Set(pos int, v T) error {
	if !b.inRange(pos) {
		return fmt.Errorf("%w: position %d, size %d", ErrIndexOutOfRange, pos, b.count)
	}
	b.storage[b.physical(pos)] = v
	return nil
}

// Slot returns the physical storage slot backing logical position pos.
func (b *Buffer[T]) Slot(pos int) (int, error) {
	if !b.inRange(pos) {
		return 0, fmt.Errorf("%w: position %d, size %d", ErrIndexOutOfRange, pos, b.count)
	}
	return b.physical(pos), nil
}

// Front returns the oldest element.
func (b *Buffer[T]) Front() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return b.storage[b.oldest], nil
}

// Back returns the newest element.
func (b *Buffer[T]) Back() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return b.storage[b.newest], nil
}

// PushBack appends v. When the buffer is full the oldest element is
// overwritten and Size stays at Capacity.
func (b *Buffer[T]) PushBack(v T) {
	n := len(b.storage)
	if n == 0 {
		panic(errZeroBuffer)
	}
	switch {
	case b.count == 0:
		b.storage[b.newest] = v
		b.count = 1
	case b.count < n:
		b.newest = (b.newest + 1) % n
		b.storage[b.newest] = v
		b.count++
	default:
		evicted := b.storage[b.oldest]
		b.oldest = (b.oldest + 1) % n
		b.newest = (b.newest + 1) % n
		b.storage[b.newest] = v
		if b.opts.onEvict != nil {
			b.opts.onEvict(evicted)
		}
		if b.opts.observer != nil {
			b.opts.observer.Evicted()
		}
	}
	b.gen++
	if b.opts.observer != nil {
		b.opts.observer.Pushed(b.count, n)
	}
}

// PopFront removes and returns the oldest element.
func (b *Buffer[T]) PopFront() (T, error) {
	var zero T
	if b.count == 0 {
		return zero, ErrEmpty
	}
	out := b.storage[b.oldest]
	b.storage[b.oldest] = zero
	b.count--
	if b.count == 0 {
		b.oldest = 0
		b.newest = 0
	} else {
		b.oldest = (b.oldest + 1) % len(b.storage)
	}
	b.gen++
	if b.opts.observer != nil {
		b.opts.observer.Popped(b.count, len(b.storage))
	}
	return out, nil
}

// Slice returns a copy of the live elements in logical order.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, b.count)
	for i := range out {
		out[i] = b.storage[b.physical(i)]
	}
	return out
}

// String renders the logical window, oldest first.
func (b *Buffer[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < b.count; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, b.storage[b.physical(i)])
	}
	sb.WriteByte(']')
	return sb.String()
}

// Begin returns a mutable iterator at the front.
func (b *Buffer[T]) Begin() Iterator[T] {
	return Iterator[T]{buf: b, index: 0, gen: b.gen}
}

// End returns a mutable iterator one past the back.
func (b *Buffer[T]) End() Iterator[T] {
	return Iterator[T]{buf: b, index: b.count, gen: b.gen}
}

// CBegin returns a read-only iterator at the front.
func (b *Buffer[T]) CBegin() ConstIterator[T] {
	return b.Begin().Const()
}

// CEnd returns a read-only iterator one past the back.
func (b *Buffer[T]) CEnd() ConstIterator[T] {
	return b.End().Const()
}
