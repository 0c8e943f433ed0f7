package ringbuf

import "fmt"

// Iterator is a random-access cursor over the logical order of a Buffer.
// It borrows the buffer: it holds no elements and becomes invalid once the
// buffer is pushed to, popped from or cleared. Invalid use returns
// ErrIteratorInvalidated instead of reading stale slots.
//
// Valid positions are 0 through Size(); Size() is the end position and
// cannot be dereferenced.
type Iterator[T any] struct {
	buf   *Buffer[T]
	index int
	gen   uint64
}

func (it *Iterator[T]) check() error {
	if it.buf == nil {
		return fmt.Errorf("%w: iterator is not bound to a buffer", ErrIteratorInvalidated)
	}
	if it.gen != it.buf.gen {
		return fmt.Errorf("%w: buffer modified since iterator was created", ErrIteratorInvalidated)
	}
	return nil
}

// Index returns the logical position of the iterator.
func (it Iterator[T]) Index() int { return it.index }

// Const returns a read-only iterator at the same position.
func (it Iterator[T]) Const() ConstIterator[T] {
	return ConstIterator[T]{it: it}
}

// Next advances the iterator by one position.
func (it *Iterator[T]) Next() error {
	if err := it.check(); err != nil {
		return err
	}
	if it.index >= it.buf.count {
		return fmt.Errorf("%w: cannot advance past the end", ErrIteratorOutOfRange)
	}
	it.index++
	return nil
}

// Prev moves the iterator back by one position.
func (it *Iterator[T]) Prev() error {
	if err := it.check(); err != nil {
		return err
	}
	if it.index <= 0 {
		return fmt.Errorf("%w: cannot move before the beginning", ErrIteratorOutOfRange)
	}
	it.index--
	return nil
}

// PostNext advances the iterator and returns a copy of its previous position.
func (it *Iterator[T]) PostNext() (Iterator[T], error) {
	prev := *it
	if err := it.Next(); err != nil {
		return prev, err
	}
	return prev, nil
}

// PostPrev moves the iterator back and returns a copy of its previous position.
func (it *Iterator[T]) PostPrev() (Iterator[T], error) {
	prev := *it
	if err := it.Prev(); err != nil {
		return prev, err
	}
	return prev, nil
}

// Move shifts the iterator by offset positions. The result must lie in
// [0, Size()]; otherwise the iterator is left unchanged.
func (it *Iterator[T]) Move(offset int) error {
	if err := it.check(); err != nil {
		return err
	}
	next := it.index + offset
	if next < 0 || next > it.buf.count {
		return fmt.Errorf("%w: position %d outside [0, %d]", ErrIteratorOutOfRange, next, it.buf.count)
	}
	it.index = next
	return nil
}

// Add returns a copy of the iterator moved forward by offset.
func (it Iterator[T]) Add(offset int) (Iterator[T], error) {
	if err := it.Move(offset); err != nil {
		return Iterator[T]{}, err
	}
	return it, nil
}

// Sub returns a copy of the iterator moved back by offset.
func (it Iterator[T]) Sub(offset int) (Iterator[T], error) {
	return it.Add(-offset)
}

// Distance returns it.Index() - other.Index(). Both iterators must belong
// to the same buffer for the result to be meaningful.
func (it Iterator[T]) Distance(other Iterator[T]) int {
	return it.index - other.index
}

// Equal reports whether both iterators are bound to the same buffer and
// point at the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.buf == other.buf && it.index == other.index
}

// Compare orders iterators of the same buffer by position, returning -1, 0 or +1.
func (it Iterator[T]) Compare(other Iterator[T]) int {
	switch {
	case it.index < other.index:
		return -1
	case it.index > other.index:
		return 1
	default:
		return 0
	}
}

// Less reports whether it is positioned before other.
func (it Iterator[T]) Less(other Iterator[T]) bool {
	return it.index < other.index
}

// slot validates the iterator for dereference and returns the storage slot.
func (it *Iterator[T]) slot() (int, error) {
	if err := it.check(); err != nil {
		return 0, err
	}
	if it.buf.count == 0 {
		return 0, ErrEmpty
	}
	if !it.buf.inRange(it.index) {
		return 0, fmt.Errorf("%w: cannot dereference position %d, size %d", ErrIteratorOutOfRange, it.index, it.buf.count)
	}
	return it.buf.physical(it.index), nil
}

// Value returns the element at the iterator's position.
func (it Iterator[T]) Value() (T, error) {
	s, err := it.slot()
	if err != nil {
		var zero T
		return zero, err
	}
	return it.buf.storage[s], nil
}

// Ptr returns a pointer to the element at the iterator's position.
func (it Iterator[T]) Ptr() (*T, error) {
	s, err := it.slot()
	if err != nil {
		return nil, err
	}
	return &it.buf.storage[s], nil
}

// Set overwrites the element at the iterator's position. It does not
// invalidate iterators.
func (it Iterator[T]) Set(v T) error {
	s, err := it.slot()
	if err != nil {
		return err
	}
	it.buf.storage[s] = v
	return nil
}

// At returns the element offset positions away from the iterator.
func (it Iterator[T]) At(offset int) (T, error) {
	moved, err := it.Add(offset)
	if err != nil {
		var zero T
		return zero, err
	}
	return moved.Value()
}

// ConstIterator is the read-only counterpart of Iterator. It never
// exposes a way to modify the buffer's elements.
type ConstIterator[T any] struct {
	it Iterator[T]
}

// Index returns the logical position of the iterator.
func (c ConstIterator[T]) Index() int { return c.it.index }

// Next advances the iterator by one position.
func (c *ConstIterator[T]) Next() error { return c.it.Next() }

// Prev moves the iterator back by one position.
func (c *ConstIterator[T]) Prev() error { return c.it.Prev() }

// PostNext advances the iterator and returns a copy of its previous position.
func (c *ConstIterator[T]) PostNext() (ConstIterator[T], error) {
	prev, err := c.it.PostNext()
	return ConstIterator[T]{it: prev}, err
}

// PostPrev moves the iterator back and returns a copy of its previous position.
func (c *ConstIterator[T]) PostPrev() (ConstIterator[T], error) {
	prev, err := c.it.PostPrev()
	return ConstIterator[T]{it: prev}, err
}

// Move shifts the iterator by offset positions.
func (c *ConstIterator[T]) Move(offset int) error { return c.it.Move(offset) }

// Add returns a copy of the iterator moved forward by offset.
func (c ConstIterator[T]) Add(offset int) (ConstIterator[T], error) {
	moved, err := c.it.Add(offset)
	return ConstIterator[T]{it: moved}, err
}

// Sub returns a copy of the iterator moved back by offset.
func (c ConstIterator[T]) Sub(offset int) (ConstIterator[T], error) {
	return c.Add(-offset)
}

// Distance returns c.Index() - other.Index().
func (c ConstIterator[T]) Distance(other ConstIterator[T]) int {
	return c.it.Distance(other.it)
}

// Equal reports whether both iterators share a buffer and position.
func (c ConstIterator[T]) Equal(other ConstIterator[T]) bool {
	return c.it.Equal(other.it)
}

// Compare orders iterators of the same buffer by position.
func (c ConstIterator[T]) Compare(other ConstIterator[T]) int {
	return c.it.Compare(other.it)
}

// Less reports whether c is positioned before other.
func (c ConstIterator[T]) Less(other ConstIterator[T]) bool {
	return c.it.Less(other.it)
}

// Value returns the element at the iterator's position.
func (c ConstIterator[T]) Value() (T, error) { return c.it.Value() }

// At returns the element offset positions away from the iterator.
func (c ConstIterator[T]) At(offset int) (T, error) { return c.it.At(offset) }
