package link

import (
	"context"
	"fmt"

	"github.com/kernelink/kernelink/expr"
)

// Normalize converts any accepted input shape into one canonical handle:
//
//   - source text is parsed (held unevaluated) via a round trip through
//     the kernel on d's link;
//   - a raw expression is wrapped directly, no round trip;
//   - a handle is returned unchanged;
//   - nil propagates as a nil handle.
//
// Anything else fails with an UnsupportedInputError.
func Normalize(ctx context.Context, in any, d *Driver) (*Handle, error) {
	switch v := in.(type) {
	case nil:
		return nil, nil
	case *Handle:
		return v, nil
	case *expr.Expr:
		return newHandle(v), nil
	case string:
		if d == nil {
			return nil, fmt.Errorf("%w: source text %q needs a driver to parse", ErrUnsupportedInput, v)
		}
		return d.parseText(ctx, v)
	default:
		return nil, &UnsupportedInputError{Value: in}
	}
}

// parseText asks the kernel to parse source text without evaluating it,
// by wrapping it in a hold: ToExpression[text, HoldComplete] answers
// HoldComplete[unit...]. Exactly one top-level unit is required.
func (d *Driver) parseText(ctx context.Context, text string) (*Handle, error) {
	req := expr.Apply(expr.NewSymbol("ToExpression"),
		expr.NewString(text),
		expr.NewSymbol("HoldComplete"),
	)
	h, err := d.send(ctx, req)
	if err != nil {
		return nil, err
	}
	held := h.Expr()
	if held.HeadName() != "HoldComplete" {
		return nil, fmt.Errorf("%w: %q did not parse (kernel answered %s)", ErrInvalidExpression, text, held)
	}
	if n := held.Len(); n != 1 {
		return nil, fmt.Errorf("%w: %q parsed to %d top-level units, want 1", ErrInvalidExpression, text, n)
	}
	return newHandle(held.Arg(0)), nil
}
