package bus

import (
	"sync"

	"github.com/spaghettifunk/aefr/engine/containers"
)

const initialCapacity = 64

type queue struct {
	mu     sync.Mutex
	items  *containers.RingQueue[Command]
	closed bool
}

// Sender is the producing end of the bus. It can be shared by any number of
// goroutines.
type Sender struct {
	q *queue
}

// Receiver is the single consuming end of the bus.
type Receiver struct {
	q *queue
}

// New creates an unbounded multi-producer, single-consumer command channel.
func New() (*Sender, *Receiver) {
	q := &queue{items: containers.NewGrowableRingQueue[Command](initialCapacity)}
	return &Sender{q: q}, &Receiver{q: q}
}

// Send enqueues cmd without blocking. It reports false once the receiver has
// been closed; the command is dropped in that case.
func (s *Sender) Send(cmd Command) bool {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.q.closed {
		return false
	}
	// growable queue never reports full
	_ = s.q.items.Enqueue(cmd)
	return true
}

// TryRecv returns the next pending command, if any.
func (r *Receiver) TryRecv() (Command, bool) {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	cmd, err := r.q.items.Dequeue()
	if err != nil {
		return nil, false
	}
	return cmd, true
}

// Drain hands every pending command to fn in FIFO order and returns the number
// handled. Commands sent by fn itself are handled in the same call.
func (r *Receiver) Drain(fn func(Command)) int {
	n := 0
	for {
		cmd, ok := r.TryRecv()
		if !ok {
			return n
		}
		fn(cmd)
		n++
	}
}

// Pending reports how many commands are queued.
func (r *Receiver) Pending() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.items.Len()
}

// Close marks the consumer as gone and drops anything still queued.
func (r *Receiver) Close() {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	r.q.closed = true
	r.q.items = containers.NewGrowableRingQueue[Command](1)
}
