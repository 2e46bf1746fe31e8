package wsclient

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"github.com/teranos/tsclientgen/errors"
)

// State of one in-flight call.
type State int

const (
	StatePending State = iota
	StateSettled
)

func (s State) String() string {
	if s == StateSettled {
		return "settled"
	}
	return "pending"
}

// Call is a request awaiting its correlated response. It settles exactly once.
type Call struct {
	ID string

	once     sync.Once
	done     chan struct{}
	response json.RawMessage
	err      error
}

func newCall(id string) *Call {
	return &Call{ID: id, done: make(chan struct{})}
}

// settle reports whether this invocation was the one that settled the call.
func (c *Call) settle(response json.RawMessage, err error) bool {
	settled := false
	c.once.Do(func() {
		c.response = response
		c.err = err
		close(c.done)
		settled = true
	})
	return settled
}

// State reports whether the call has settled.
func (c *Call) State() State {
	select {
	case <-c.done:
		return StateSettled
	default:
		return StatePending
	}
}

// Done is closed once the call settles.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until the call settles or ctx ends. Giving up on ctx leaves the
// call registered; a later response still settles it.
func (c *Call) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case <-c.done:
		return c.response, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Table holds pending calls keyed by correlation id.
type Table struct {
	mu    sync.Mutex
	calls map[string]*Call
	// closed is set by Close; Register refuses new calls afterwards.
	closed error
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{calls: make(map[string]*Call)}
}

// Register adds a pending call under id.
func (t *Table) Register(id string) (*Call, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed != nil {
		return nil, t.closed
	}
	if _, ok := t.calls[id]; ok {
		return nil, errors.NewInvariantViolation("correlation id %s is already pending", id)
	}
	c := newCall(id)
	t.calls[id] = c
	return c, nil
}

// Settle completes the call registered under id with response. Unknown ids
// leave the table untouched and report false.
func (t *Table) Settle(id string, response json.RawMessage) bool {
	t.mu.Lock()
	c, ok := t.calls[id]
	if ok {
		delete(t.calls, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	return c.settle(response, nil)
}

// Fail completes the call registered under id with err.
func (t *Table) Fail(id string, err error) bool {
	t.mu.Lock()
	c, ok := t.calls[id]
	if ok {
		delete(t.calls, id)
	}
	t.mu.Unlock()
	return ok && c.settle(nil, err)
}

// FailAll completes every pending call with err and empties the table.
func (t *Table) FailAll(err error) int {
	t.mu.Lock()
	calls := t.calls
	t.calls = make(map[string]*Call)
	t.mu.Unlock()
	for _, c := range calls {
		c.settle(nil, err)
	}
	return len(calls)
}

// Close fails every pending call with err and makes later registrations
// return err. It returns the number of calls failed.
func (t *Table) Close(err error) int {
	t.mu.Lock()
	if t.closed == nil {
		t.closed = err
	}
	t.mu.Unlock()
	return t.FailAll(err)
}

// Len returns the number of pending calls.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

// Pending reports whether id is awaiting a response.
func (t *Table) Pending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.calls[id]
	return ok
}
