// Package ringbuf implements a generic fixed-capacity circular buffer with
// overwrite-on-full semantics and random-access iterators over its logical
// (FIFO) order.
//
// # Logical and physical positions
//
// Elements live in a slice of Capacity() slots. Logical position 0 is the
// oldest live element; logical position i is stored in physical slot
// (oldest + i) mod Capacity(). Every accessor and iterator goes through this
// single mapping.
//
// # Usage
//
//	buf, err := ringbuf.New[int](3)
//	if err != nil {
//		return err
//	}
//	for _, v := range []int{1, 2, 3, 4} {
//		buf.PushBack(v) // 4 evicts 1
//	}
//	front, _ := buf.Front() // 2
//
//	for it := buf.CBegin(); !it.Equal(buf.CEnd()); _ = it.Next() {
//		v, _ := it.Value()
//		fmt.Println(v)
//	}
//
// Range-over-func iteration is available through All, Values and Backward.
//
// # Iterator invalidation
//
// Iterators borrow the buffer they were created from. PushBack, PopFront and
// Clear invalidate all outstanding iterators; using one afterwards returns
// ErrIteratorInvalidated. Writing through Set or an iterator does not.
//
// # Concurrency
//
// A Buffer is not safe for concurrent use. Callers that share one between
// goroutines must serialize access.
package ringbuf
