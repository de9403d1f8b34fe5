package service

import (
	"sort"
	"sync"
)

// notifier fans snapshots out to subscribers. Listeners run on the
// publishing goroutine, after the publisher has released its own lock.
type notifier[T any] struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(T)
}

func (n *notifier[T]) subscribe(fn func(T)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]func(T))
	}
	id := n.next
	n.next++
	n.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier[T]) publish(v T) {
	n.mu.Lock()
	ids := make([]int, 0, len(n.listeners))
	for id := range n.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.listeners[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
