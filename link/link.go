// Package link owns the host side of the kernel channel: the Link
// capability interface, the wrapped Handle that canonicalizes requests and
// responses, and the Driver that serializes all traffic on one link.
package link

import (
	"context"
	"sync/atomic"

	"github.com/kernelink/kernelink/expr"
)

// Link is the communication capability to one live kernel connection. The
// channel is stateful and half duplex: every Submit must be followed by
// exactly one AwaitResponse before the next Submit. Implementations are not
// required to be safe for concurrent use; the Driver provides the mutual
// exclusion.
type Link interface {
	// Submit writes one request expression to the kernel.
	Submit(ctx context.Context, e *expr.Expr) error
	// AwaitResponse blocks until the kernel's response to the last
	// submitted request is complete, and returns it.
	AwaitResponse(ctx context.Context) (*expr.Expr, error)
	// Close tears down the connection. The link is unusable afterwards.
	Close() error
}

// requestCounter issues process-wide request identities for handles.
var requestCounter atomic.Uint64

// Handle is the canonical reference to a foreign expression plus the
// identity of the request that produced it. Handles disambiguate
// already-normalized values from raw input still requiring normalization:
// the Normalizer and Driver create them, the decode engine consumes them.
type Handle struct {
	ex     *expr.Expr
	origin uint64
}

func newHandle(e *expr.Expr) *Handle {
	return &Handle{ex: e, origin: requestCounter.Add(1)}
}

// Expr returns the wrapped expression.
func (h *Handle) Expr() *expr.Expr { return h.ex }

// Origin returns the identity of the request that produced the handle.
func (h *Handle) Origin() uint64 { return h.origin }

func (h *Handle) String() string {
	if h == nil {
		return "<nil handle>"
	}
	return h.ex.String()
}
