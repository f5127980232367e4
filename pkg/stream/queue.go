package stream

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue is a FIFO handoff between exactly one sender and one receiver.
//
// The sender closes the queue with CloseSend once it has nothing more to
// send; everything already queued can still be received, in order. The
// receiver abandons the queue with Stop, after which every Send fails
// so the sender knows to give up.
type Queue[T any] struct {
	items   *deque.Deque[T]
	size    int
	lock    sync.Mutex
	cond    *sync.Cond
	closed  bool
	stopped bool
}

// NewQueue returns a queue holding at most size items, or any number of
// items if size is zero.
func NewQueue[T any](size int) *Queue[T] {
	q := Queue[T]{
		items: deque.New[T](),
		size:  size,
	}
	q.cond = sync.NewCond(&q.lock)
	return &q
}

// Send appends item to the queue, blocking while the queue is full. It
// returns false, without queueing the item, if the receiver has stopped
// or the queue has been closed.
func (q *Queue[T]) Send(item T) bool {
	q.lock.Lock()
	defer q.lock.Unlock()

	for q.size > 0 && q.items.Len() >= q.size && !q.stopped {
		q.cond.Wait()
	}
	if q.stopped || q.closed {
		return false
	}

	q.items.PushBack(item)
	q.cond.Broadcast()
	return true
}

// Recv blocks until an item is available and returns it. Once the queue
// has been closed and drained, or stopped, it returns false.
func (q *Queue[T]) Recv() (T, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	for q.items.Len() == 0 && !q.closed && !q.stopped {
		q.cond.Wait()
	}
	if q.stopped || q.items.Len() == 0 {
		var zero T
		return zero, false
	}

	item := q.items.PopFront()
	q.cond.Broadcast()
	return item, true
}

// CloseSend marks that no more items will be sent.
func (q *Queue[T]) CloseSend() {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Stop abandons the queue from the receiving side, discarding anything
// still queued and waking a blocked sender.
func (q *Queue[T]) Stop() {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.stopped = true
	q.items = deque.New[T]()
	q.cond.Broadcast()
}

func (q *Queue[T]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.items.Len()
}
