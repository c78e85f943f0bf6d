package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/kernelink/kernelink/expr"
	"github.com/kernelink/kernelink/link"
)

// maxDecodeDepth bounds decode recursion. Well-formed finite expressions
// stay far below it; hitting it surfaces ErrDecodeExhaustion instead of a
// stack overflow.
const maxDecodeDepth = 1 << 14

// Decode walks a response handle into a native value under cfg. It is
// pure given (handle, cfg): no hidden state, so independent subtrees may
// be decoded concurrently. A nil handle decodes to nil.
func Decode(ctx context.Context, h *link.Handle, cfg Config) (any, error) {
	if h == nil {
		return nil, nil
	}
	e := h.Expr()
	if cfg.strict {
		if fe := engineFailure(e); fe != nil {
			return nil, &link.EngineError{Expr: fe}
		}
	}
	return decodeExpr(ctx, e, cfg, 0)
}

// engineFailure returns the failure expression when e is a kernel-reported
// evaluation failure, nil otherwise.
func engineFailure(e *expr.Expr) *expr.Expr {
	if e.IsSymbol() && e.SymbolName() == "$Failed" {
		return e
	}
	if e.IsComposite() && e.HeadName() == "Failure" {
		return e
	}
	return nil
}

// decodeExpr is the ordered dispatch at the heart of the engine. The order
// is load-bearing: function mode first, then atoms and full-form, then the
// homogeneous-array fast paths, then the generic catch-all.
func decodeExpr(ctx context.Context, e *expr.Expr, cfg Config, depth int) (any, error) {
	if depth > maxDecodeDepth {
		return nil, fmt.Errorf("%w: depth %d at %s", ErrDecodeExhaustion, depth, e.HeadName())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.asFunction {
		cfg.trace(ctx, "decode whole expression as callable", "expr", e.String())
		return newCallable(e, cfg), nil
	}
	if e.IsAtom() {
		return decodeAtom(e, cfg)
	}
	if cfg.fullForm {
		return decodeNode(ctx, e, cfg, depth)
	}
	switch e.HeadName() {
	case "Function":
		cfg.trace(ctx, "decode function template as callable", "expr", e.String())
		return newCallable(e, cfg), nil
	case "HashMapObject":
		return decodeAssoc(ctx, e, cfg, depth)
	}
	if k, ok := e.VectorKind(); ok {
		return decodeVector(ctx, e, k, cfg, depth)
	}
	if k, ok := e.MatrixKind(); ok {
		return decodeMatrix(ctx, e, k, cfg, depth)
	}
	return decodeGeneric(ctx, e, cfg, depth)
}

// decodeAtom decodes a single atom. The test order mirrors the dispatch
// contract: arbitrary-precision integer, arbitrary-precision real,
// machine-range integer, double, string, rational, symbol.
func decodeAtom(e *expr.Expr, cfg Config) (any, error) {
	switch {
	case e.IsBigInteger():
		// Narrow to the machine integer when the value fits; one beyond
		// either int64 bound stays arbitrary precision.
		bi := e.BigInt()
		if bi.IsInt64() {
			return bi.Int64(), nil
		}
		return bi, nil
	case e.IsBigReal():
		return e.BigFloat(), nil
	case e.IsInteger():
		return e.Int64(), nil
	case e.IsReal():
		return e.Float64(), nil
	case e.IsString():
		return e.Text(), nil
	case e.IsRational():
		return e.Rat(), nil
	case e.IsSymbol():
		return decodeSymbol(e.SymbolName(), cfg), nil
	}
	return nil, fmt.Errorf("decode: expression %s is not an atom", e)
}

// decodeSymbol maps a kernel symbol name to its native value. The three
// reserved names win over the alias table.
func decodeSymbol(name string, cfg Config) any {
	switch name {
	case "True":
		return true
	case "False":
		return false
	case "Null":
		return nil
	}
	if host, ok := cfg.aliases[name]; ok {
		return Symbol(host)
	}
	return Symbol(strings.ReplaceAll(name, "`", "/"))
}

// decodeVector decodes a homogeneous one-dimensional array of kind k.
func decodeVector(ctx context.Context, e *expr.Expr, k expr.Kind, cfg Config, depth int) (any, error) {
	if cfg.numericCoercion && expr.IsNumericKind(k) {
		v, _ := e.Float64Vector()
		cfg.trace(ctx, "coerced numeric vector", "len", len(v))
		return v, nil
	}
	cfg.trace(ctx, "decode simple vector", "kind", k.String(), "len", e.Len())
	if cfg.realization == Vectors {
		out := make([]any, e.Len())
		for i := 0; i < e.Len(); i++ {
			v, err := decodeAtom(e.Arg(i), cfg)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	snapshot := cfg
	return Seq(func(yield func(any, error) bool) {
		for i := 0; i < e.Len(); i++ {
			if !yield(decodeAtom(e.Arg(i), snapshot)) {
				return
			}
		}
	}), nil
}

// decodeMatrix decodes a homogeneous two-dimensional array, recursing
// row-wise with the element kind pre-supplied so rows are not re-probed.
func decodeMatrix(ctx context.Context, e *expr.Expr, k expr.Kind, cfg Config, depth int) (any, error) {
	if cfg.numericCoercion && expr.IsNumericKind(k) {
		m, _ := e.Float64Matrix()
		cfg.trace(ctx, "coerced numeric matrix", "rows", len(m))
		return m, nil
	}
	cfg.trace(ctx, "decode simple matrix", "kind", k.String(), "rows", e.Len())
	row := func(r *expr.Expr, rowCfg Config) (any, error) {
		out := make([]any, r.Len())
		for i := 0; i < r.Len(); i++ {
			v, err := decodeAtom(r.Arg(i), rowCfg)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	switch cfg.realization {
	case Vectors:
		out := make([]any, e.Len())
		for i := 0; i < e.Len(); i++ {
			v, err := row(e.Arg(i), cfg)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case LazyOfLazy:
		snapshot := cfg
		return Seq(func(yield func(any, error) bool) {
			for i := 0; i < e.Len(); i++ {
				v, err := decodeVector(ctx, e.Arg(i), k, snapshot, depth+1)
				if !yield(v, err) {
					return
				}
			}
		}), nil
	default: // FiniteLazy: lazy rows, eagerly realized on pull
		snapshot := cfg
		return Seq(func(yield func(any, error) bool) {
			for i := 0; i < e.Len(); i++ {
				if !yield(row(e.Arg(i), snapshot)) {
					return
				}
			}
		}), nil
	}
}

// decodeGeneric is the catch-all: recursively decode every argument in
// original order under the ambient realization policy. List-headed
// expressions become sequences; anything else becomes a generic node.
func decodeGeneric(ctx context.Context, e *expr.Expr, cfg Config, depth int) (any, error) {
	if e.HeadName() == "List" {
		return decodeSequence(ctx, e, cfg, depth)
	}
	return decodeNode(ctx, e, cfg, depth)
}

// decodeSequence realizes the arguments of a List-headed expression.
func decodeSequence(ctx context.Context, e *expr.Expr, cfg Config, depth int) (any, error) {
	switch cfg.realization {
	case Vectors:
		out := make([]any, e.Len())
		for i := 0; i < e.Len(); i++ {
			v, err := decodeExpr(ctx, e.Arg(i), cfg, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case LazyOfLazy:
		snapshot := cfg
		return Seq(func(yield func(any, error) bool) {
			for i := 0; i < e.Len(); i++ {
				if !yield(decodeExpr(ctx, e.Arg(i), snapshot, depth+1)) {
					return
				}
			}
		}), nil
	default: // FiniteLazy: lazy spine, eager elements at pull time
		snapshot := cfg.With(WithRealization(Vectors))
		return Seq(func(yield func(any, error) bool) {
			for i := 0; i < e.Len(); i++ {
				if !yield(decodeExpr(ctx, e.Arg(i), snapshot, depth+1)) {
					return
				}
			}
		}), nil
	}
}

// decodeNode decodes head and children eagerly into the generic fallback.
func decodeNode(ctx context.Context, e *expr.Expr, cfg Config, depth int) (any, error) {
	headCfg := cfg.With(WithRealization(Vectors))
	head, err := decodeExpr(ctx, e.Head(), headCfg, depth+1)
	if err != nil {
		return nil, err
	}
	children := make([]any, e.Len())
	for i := 0; i < e.Len(); i++ {
		v, err := decodeExpr(ctx, e.Arg(i), cfg, depth+1)
		if err != nil {
			return nil, err
		}
		children[i] = v
	}
	return &Node{Head: head, Children: children}, nil
}

// decodeAssoc decodes a HashMapObject wrapper. Its single argument must be
// a rule list, or a Dispatch wrapping one.
func decodeAssoc(ctx context.Context, e *expr.Expr, cfg Config, depth int) (any, error) {
	if e.Len() != 1 {
		return nil, fmt.Errorf("%w: HashMapObject has %d arguments, want 1", ErrMalformedMap, e.Len())
	}
	rules := e.Arg(0)
	if rules.HeadName() == "Dispatch" && rules.Len() == 1 {
		rules = rules.Arg(0)
	}
	if rules.HeadName() != "List" {
		return nil, fmt.Errorf("%w: rule set has head %s, want List or Dispatch", ErrMalformedMap, rules.Head())
	}
	cfg.trace(ctx, "decode map", "rules", rules.Len())
	// Keys must be materialized values; the ambient policy still applies
	// to the decoded values.
	keyCfg := cfg.With(WithRealization(Vectors))
	entries := make([]Entry, 0, rules.Len())
	for i := 0; i < rules.Len(); i++ {
		r := rules.Arg(i)
		if r.HeadName() != "Rule" || r.Len() != 2 {
			return nil, fmt.Errorf("%w: element %d is %s, want Rule[key, value]", ErrMalformedMap, i, r)
		}
		k, err := decodeExpr(ctx, r.Arg(0), keyCfg, depth+1)
		if err != nil {
			return nil, err
		}
		v, err := decodeExpr(ctx, r.Arg(1), cfg, depth+1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return NewAssoc(entries...), nil
}
