package link

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/kernelink/kernelink/expr"
)

// Driver owns exclusive access to one Link. The underlying channel is a
// single full-duplex pipe with no request identifiers, so the
// submit-through-read span of every request is one atomic unit: a second
// request interleaved between a submit and its read would be answered with
// the wrong response. Different drivers over different links are fully
// independent.
type Driver struct {
	link   Link
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the logger used for submit/receive traces.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// NewDriver wraps a Link in a Driver. The Driver becomes the link's sole
// user; callers must not touch the Link directly afterwards.
func NewDriver(l Link, opts ...DriverOption) *Driver {
	d := &Driver{
		link: l,
		sem:  semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Request normalizes input and evaluates it on the driver's link, blocking
// until the link is free and the response is complete. Absent (nil) input
// short-circuits to a nil handle without touching the link.
func (d *Driver) Request(ctx context.Context, in any) (*Handle, error) {
	h, err := Normalize(ctx, in, d)
	if err != nil || h == nil {
		return nil, err
	}
	return d.send(ctx, h.Expr())
}

// Close closes the underlying link.
func (d *Driver) Close() error {
	return d.link.Close()
}

// send runs one exclusive submit/await cycle on the link. The semaphore is
// held from submit through read and released on every exit path, so a
// failed request never locks out subsequent callers.
func (d *Driver) send(ctx context.Context, e *expr.Expr) (*Handle, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire link: %w", err)
	}
	defer d.sem.Release(1)

	if d.logger != nil {
		d.logger.DebugContext(ctx, "submit request", slog.String("expr", e.String()))
	}
	if err := d.link.Submit(ctx, e); err != nil {
		return nil, &LinkFailureError{Op: "submit", Cause: err}
	}
	resp, err := d.link.AwaitResponse(ctx)
	if err != nil {
		return nil, &LinkFailureError{Op: "await", Cause: err}
	}
	if d.logger != nil {
		d.logger.DebugContext(ctx, "received response", slog.String("expr", resp.String()))
	}
	return newHandle(resp), nil
}
