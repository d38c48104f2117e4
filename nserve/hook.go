package nserve

import (
	"sync"
	"sync/atomic"
)

var hookCounter int32

type hookOrder string

const (
	ForwardOrder hookOrder = "forward"
	ReverseOrder hookOrder = "reverse"
)

type hookID int32

// Hook names a list of callbacks to invoke together
type Hook struct {
	id            hookID
	lock          sync.Mutex
	Name          string
	Order         hookOrder
	InvokeOnError []*Hook
	ContinuePast  bool
	ErrorCombiner func(first, second error) error
}

// NewHook creates a new category of callbacks.
func NewHook(name string, order hookOrder) *Hook {
	return &Hook{
		id:    hookID(atomic.AddInt32(&hookCounter, 1)),
		Name:  name,
		Order: order,
	}
}

// Copy makes a deep copy of a hook.  The copy is a different hook:
// callbacks registered on one are not invoked by the other.
func (h *Hook) Copy() *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	oe := make([]*Hook, len(h.InvokeOnError))
	copy(oe, h.InvokeOnError)
	return &Hook{
		id:            hookID(atomic.AddInt32(&hookCounter, 1)),
		Name:          h.Name,
		Order:         h.Order,
		InvokeOnError: oe,
		ContinuePast:  h.ContinuePast,
		ErrorCombiner: h.ErrorCombiner,
	}
}

// OnError adds to the set of hooks to invoke when this hook returns
// an error.  Call with nil to clear the set.
func (h *Hook) OnError(e *Hook) *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	if e == nil {
		h.InvokeOnError = nil
	} else {
		h.InvokeOnError = append(h.InvokeOnError, e)
	}
	return h
}

// SetErrorCombiner sets a function to combine two errors into one when
// more than one callback fails.  Without a combiner, the first error
// is kept.
func (h *Hook) SetErrorCombiner(f func(first, second error) error) *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.ErrorCombiner = f
	return h
}

// ContinuePastError sets if callbacks should continue to be invoked
// after one has failed.
func (h *Hook) ContinuePastError(b bool) *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.ContinuePast = b
	return h
}

func (h *Hook) settings() (order hookOrder, onError []*Hook, continuePast bool, combine func(error, error) error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	onError = make([]*Hook, len(h.InvokeOnError))
	copy(onError, h.InvokeOnError)
	return h.Order, onError, h.ContinuePast, h.ErrorCombiner
}

func (h *Hook) String() string {
	return "hook " + h.Name
}

var (
	Shutdown = NewHook("shutdown", ReverseOrder)
	Stop     = NewHook("stop", ReverseOrder).OnError(Shutdown).ContinuePastError(true)
	Start    = NewHook("start", ForwardOrder).OnError(Stop)
)
