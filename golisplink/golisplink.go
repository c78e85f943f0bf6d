// Package golisplink adapts an embedded GoLisp interpreter as a kernel
// Link, giving tests and examples a real in-process symbolic engine:
// requests are rendered as s-expressions, evaluated in a private
// environment, and the results converted back into expression trees.
//
// GoLisp has no exact rational type, so rationals are rendered as a
// float division and come back as floats.
package golisplink

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/steelseries/golisp"

	"github.com/kernelink/kernelink/expr"
	"github.com/kernelink/kernelink/link"
)

// headToLisp maps kernel heads onto GoLisp operators.
var headToLisp = map[string]string{
	"Plus":     "+",
	"Subtract": "-",
	"Times":    "*",
	"Divide":   "/",
	"List":     "list",
	"Equal":    "==",
}

// lispToHead is the reverse mapping for symbols coming back out.
var lispToHead = map[string]string{
	"+":    "Plus",
	"-":    "Subtract",
	"*":    "Times",
	"/":    "Divide",
	"list": "List",
	"==":   "Equal",
}

// Link evaluates submitted expressions in an embedded GoLisp environment.
// Like any kernel link it is half duplex and not safe for concurrent use;
// drive it through a link.Driver.
type Link struct {
	mu      sync.Mutex
	env     *golisp.SymbolTableFrame
	pending *expr.Expr
	hasReq  bool
	closed  bool
}

var _ link.Link = (*Link)(nil)

// New returns a Link over a fresh environment below the GoLisp global.
func New() *Link {
	return &Link{env: golisp.NewSymbolTableFrameBelow(golisp.Global, "kernelink")}
}

func (l *Link) Submit(ctx context.Context, e *expr.Expr) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return fmt.Errorf("golisp link closed")
	}
	if l.hasReq {
		return fmt.Errorf("submit while response pending")
	}
	l.pending = e
	l.hasReq = true
	return nil
}

func (l *Link) AwaitResponse(ctx context.Context) (*expr.Expr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, fmt.Errorf("golisp link closed")
	}
	if !l.hasReq {
		return nil, fmt.Errorf("await without submitted request")
	}
	req := l.pending
	l.pending = nil
	l.hasReq = false
	return l.evaluate(req), nil
}

func (l *Link) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// evaluate runs one request. Evaluation failures come back as Failure[...]
// expressions, the kernel-error shape, never as Go errors: the channel
// itself did not fail.
func (l *Link) evaluate(req *expr.Expr) *expr.Expr {
	// The normalizer's parse round trip holds text unevaluated; quote
	// gives the same semantics here.
	if req.HeadName() == "ToExpression" && req.Len() >= 1 && req.Arg(0).IsString() {
		d, err := golisp.ParseAndEvalInEnvironment("(quote "+req.Arg(0).Text()+")", l.env)
		if err != nil {
			return failure(err)
		}
		return expr.Apply(expr.NewSymbol("HoldComplete"), fromCode(d))
	}
	src, err := render(req)
	if err != nil {
		return failure(err)
	}
	d, err := golisp.ParseAndEvalInEnvironment(src, l.env)
	if err != nil {
		return failure(err)
	}
	return fromData(d)
}

func failure(err error) *expr.Expr {
	return expr.Apply(expr.NewSymbol("Failure"), expr.NewString(err.Error()))
}

// render writes an expression as GoLisp source.
func render(e *expr.Expr) (string, error) {
	var sb strings.Builder
	if err := renderTo(&sb, e); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderTo(sb *strings.Builder, e *expr.Expr) error {
	switch {
	case e.IsInteger():
		fmt.Fprintf(sb, "%d", e.Int64())
	case e.IsBigInteger():
		sb.WriteString(e.BigInt().String())
	case e.IsReal():
		s := fmt.Sprintf("%g", e.Float64())
		sb.WriteString(s)
		if !strings.ContainsAny(s, ".e") {
			sb.WriteString(".0")
		}
	case e.IsBigReal():
		f, _ := e.BigFloat().Float64()
		fmt.Fprintf(sb, "%g", f)
	case e.IsRational():
		fmt.Fprintf(sb, "(/ %s.0 %s.0)", e.Rat().Num(), e.Rat().Denom())
	case e.IsString():
		fmt.Fprintf(sb, "%q", e.Text())
	case e.IsSymbol():
		sb.WriteString(renderSymbol(e.SymbolName()))
	case e.IsComposite():
		sb.WriteByte('(')
		if err := renderTo(sb, e.Head()); err != nil {
			return err
		}
		for i := 0; i < e.Len(); i++ {
			sb.WriteByte(' ')
			if err := renderTo(sb, e.Arg(i)); err != nil {
				return err
			}
		}
		sb.WriteByte(')')
	default:
		return fmt.Errorf("golisplink: cannot render %s", e)
	}
	return nil
}

func renderSymbol(name string) string {
	switch name {
	case "True":
		return "#t"
	case "False":
		return "#f"
	case "Null":
		return "nil"
	}
	if op, ok := headToLisp[name]; ok {
		return op
	}
	return name
}

// fromCode converts a quoted (unevaluated) GoLisp form into an expression:
// a list whose first element is a symbol reads as an application of that
// head, so the form renders back to the same source later.
func fromCode(d *golisp.Data) *expr.Expr {
	if golisp.PairP(d) && !golisp.NilP(d) {
		items := golisp.ToArray(d)
		if len(items) > 0 && golisp.SymbolP(items[0]) {
			head := fromCode(items[0])
			args := make([]*expr.Expr, len(items)-1)
			for i, item := range items[1:] {
				args[i] = fromCode(item)
			}
			return expr.Apply(head, args...)
		}
	}
	return fromData(d)
}

// fromData converts an evaluated GoLisp datum back into an expression.
func fromData(d *golisp.Data) *expr.Expr {
	switch {
	case golisp.NilP(d):
		return expr.NewSymbol("Null")
	case golisp.BooleanP(d):
		if golisp.BooleanValue(d) {
			return expr.NewSymbol("True")
		}
		return expr.NewSymbol("False")
	case golisp.IntegerP(d):
		return expr.NewInteger(golisp.IntegerValue(d))
	case golisp.FloatP(d):
		return expr.NewReal(float64(golisp.FloatValue(d)))
	case golisp.StringP(d):
		return expr.NewString(golisp.StringValue(d))
	case golisp.SymbolP(d):
		name := golisp.StringValue(d)
		if head, ok := lispToHead[name]; ok {
			return expr.NewSymbol(head)
		}
		return expr.NewSymbol(name)
	case golisp.ListP(d):
		items := golisp.ToArray(d)
		args := make([]*expr.Expr, len(items))
		for i, item := range items {
			args[i] = fromData(item)
		}
		return expr.NewList(args...)
	}
	// Anything else (functions, objects) round-trips as its printed form.
	return expr.NewString(golisp.String(d))
}
