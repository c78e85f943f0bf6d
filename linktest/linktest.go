// Package linktest provides fake kernel links for tests: a scripted engine
// that answers requests from a response function and records the exact
// submit/await ordering observed on the channel.
package linktest

import (
	"context"
	"fmt"
	"sync"

	"github.com/kernelink/kernelink/expr"
	"github.com/kernelink/kernelink/link"
)

// Op labels one recorded channel event.
type Op string

const (
	OpSubmit Op = "submit"
	OpAwait  Op = "await"
)

// Event is one recorded channel interaction: a submitted request or a
// consumed response.
type Event struct {
	Op   Op
	Expr *expr.Expr
}

// ScriptedLink is an in-memory Link whose responses come from a script
// function. It enforces the half-duplex contract: AwaitResponse without a
// pending Submit, or Submit over an unconsumed request, are errors.
type ScriptedLink struct {
	mu      sync.Mutex
	respond func(req *expr.Expr) *expr.Expr
	pending *expr.Expr
	hasReq  bool
	events  []Event
	closed  bool

	// SubmitErr and AwaitErr, when set, are returned by the next
	// Submit/AwaitResponse to simulate I/O failure.
	SubmitErr error
	AwaitErr  error
}

var _ link.Link = (*ScriptedLink)(nil)

// NewScripted returns a link answering every request with respond(req).
func NewScripted(respond func(req *expr.Expr) *expr.Expr) *ScriptedLink {
	return &ScriptedLink{respond: respond}
}

// NewEcho returns a link that answers every request with itself.
func NewEcho() *ScriptedLink {
	return NewScripted(func(req *expr.Expr) *expr.Expr { return req })
}

func (l *ScriptedLink) Submit(ctx context.Context, e *expr.Expr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return fmt.Errorf("link closed")
	}
	if l.SubmitErr != nil {
		return l.SubmitErr
	}
	if l.hasReq {
		return fmt.Errorf("submit while response pending: frames interleaved")
	}
	l.pending = e
	l.hasReq = true
	l.events = append(l.events, Event{Op: OpSubmit, Expr: e})
	return nil
}

func (l *ScriptedLink) AwaitResponse(ctx context.Context) (*expr.Expr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, fmt.Errorf("link closed")
	}
	if l.AwaitErr != nil {
		return nil, l.AwaitErr
	}
	if !l.hasReq {
		return nil, fmt.Errorf("await without submitted request")
	}
	resp := l.respond(l.pending)
	l.pending = nil
	l.hasReq = false
	l.events = append(l.events, Event{Op: OpAwait, Expr: resp})
	return resp, nil
}

func (l *ScriptedLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Events returns a copy of the recorded event log in channel order.
func (l *ScriptedLink) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
