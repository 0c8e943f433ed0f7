package ringbuf_test

import (
	"fmt"

	"github.com/dagucloud/ringbuf/pkg/ringbuf"
)

func ExampleBuffer_PushBack() {
	buf, err := ringbuf.New[int](3)
	if err != nil {
		panic(err)
	}
	for _, v := range []int{1, 2, 3, 4} {
		buf.PushBack(v)
	}
	front, _ := buf.Front()
	back, _ := buf.Back()
	fmt.Println(buf, front, back, buf.Size())
	// Output: [2 3 4] 2 4 3
}

func ExampleBuffer_PopFront() {
	buf, _ := ringbuf.New[int](3)
	buf.PushBack(1)
	buf.PushBack(2)
	buf.PushBack(3)

	first, _ := buf.PopFront()
	second, _ := buf.PopFront()
	fmt.Println(first, second, buf.Size())
	// Output: 1 2 1
}

func ExampleFrom() {
	buf, _ := ringbuf.From([]int{1, 2, 3, 4, 5})
	for it := buf.CBegin(); !it.Equal(buf.CEnd()); _ = it.Next() {
		v, _ := it.Value()
		fmt.Print(v, " ")
	}
	fmt.Println()
	// Output: 1 2 3 4 5
}

func ExampleBuffer_All() {
	buf, _ := ringbuf.New[string](2)
	for _, s := range []string{"a", "b", "c"} {
		buf.PushBack(s)
	}
	for i, s := range buf.All() {
		slot, _ := buf.Slot(i)
		fmt.Printf("%d:%s@%d\n", i, s, slot)
	}
	// Output:
	// 0:b@1
	// 1:c@0
}
