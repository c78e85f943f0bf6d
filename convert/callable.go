package convert

import (
	"context"
	"fmt"

	"github.com/kernelink/kernelink/expr"
)

// Callable is a host-invocable closure over a kernel function template.
// It captures the configuration bundle and channel driver active when it
// was decoded, not whatever is ambient when it is eventually applied, so
// deferred and closure-based continuations observe a frozen view of their
// creation context.
type Callable struct {
	head *expr.Expr
	cfg  Config
}

func newCallable(e *expr.Expr, cfg Config) *Callable {
	// The captured bundle requests plain-expression semantics for the
	// callable's own arguments and results.
	return &Callable{head: e, cfg: cfg.With(plainExpression())}
}

func plainExpression() Option {
	return func(c *Config) { c.asFunction = false }
}

// Expr returns the captured template expression.
func (c *Callable) Expr() *expr.Expr { return c.head }

// Apply encodes args, applies the captured template to them, evaluates the
// application on the captured link, and decodes the response under the
// captured bundle. Apply must not be invoked from within a request that is
// already holding the same link; that would deadlock on the link's
// exclusivity.
func (c *Callable) Apply(ctx context.Context, args ...any) (any, error) {
	d := c.cfg.driver
	if d == nil {
		return nil, fmt.Errorf("callable %s: no channel driver captured", c.head)
	}
	encoded := make([]*expr.Expr, len(args))
	for i, a := range args {
		e, err := EncodeWith(c.cfg, a)
		if err != nil {
			return nil, fmt.Errorf("callable argument %d: %w", i, err)
		}
		encoded[i] = e
	}
	h, err := d.Request(ctx, expr.Apply(c.head, encoded...))
	if err != nil {
		return nil, err
	}
	return Decode(ctx, h, c.cfg)
}

func (c *Callable) String() string {
	return fmt.Sprintf("Callable(%s)", c.head)
}
