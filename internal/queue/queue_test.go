package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New[string](4)
	q.Push("first")
	q.Push("second")
	q.Push("third")

	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	v, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "third", v)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestQueue_DrainAll(t *testing.T) {
	q := New[int](4)
	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())

	all := q.DrainAll()
	assert.Equal(t, []int{1, 2, 3}, all)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_ConcurrentPop_SingleConsumerPerItem(t *testing.T) {
	q := New[int](100)
	for i := 0; i < 100; i++ {
		q.Push(i)
	}

	var mu sync.Mutex
	seen := make(map[int]int)
	var wg sync.WaitGroup

	for w := 0; w < 5; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 100)
	for v, n := range seen {
		assert.Equal(t, 1, n, "item %d popped more than once", v)
	}
}
