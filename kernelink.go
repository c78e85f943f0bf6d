// Package kernelink drives an external symbolic-computation kernel over a
// single stateful, half-duplex channel. It serializes concurrent access to
// the channel and translates between the kernel's symbolic expressions and
// native Go values in both directions without losing type fidelity:
// arbitrary-precision integers, exact rationals, function templates, and
// map wrappers all survive the round trip.
//
// The usual flow: wrap a connection in a link.Driver, hand the driver any
// request shape (source text, a raw expression, an existing handle), and
// decode the response handle under a convert.Config bundle. The root
// package re-exports the working set so simple callers need only this
// import.
package kernelink

import (
	"context"

	"github.com/kernelink/kernelink/convert"
	"github.com/kernelink/kernelink/expr"
	"github.com/kernelink/kernelink/link"
)

// Re-export the core types for convenience.
type (
	Expr     = expr.Expr
	Link     = link.Link
	Driver   = link.Driver
	Handle   = link.Handle
	Config   = convert.Config
	Option   = convert.Option
	Symbol   = convert.Symbol
	Assoc    = convert.Assoc
	Entry    = convert.Entry
	Node     = convert.Node
	Callable = convert.Callable
	Seq      = convert.Seq
	Binding  = convert.Binding
)

// Re-export the caller-facing operations.
var (
	NewDriver        = link.NewDriver
	Normalize        = link.Normalize
	NewConfig        = convert.NewConfig
	Decode           = convert.Decode
	Encode           = convert.Encode
	EncodeWith       = convert.EncodeWith
	BuildApplication = convert.BuildApplication
	BuildBinding     = convert.BuildBinding
)

// Evaluate normalizes input, evaluates it on d's link, and decodes the
// response under the given options. The driver is injected into the
// bundle so decoded callables capture it.
func Evaluate(ctx context.Context, in any, d *link.Driver, opts ...convert.Option) (any, error) {
	cfg := convert.NewConfig(append([]convert.Option{convert.WithDriver(d)}, opts...)...)
	h, err := d.Request(ctx, in)
	if err != nil {
		return nil, err
	}
	return convert.Decode(ctx, h, cfg)
}
