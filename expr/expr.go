// Package expr defines the kernel's symbolic expression tree as seen by the
// host: immutable atoms and applications, with typed predicates and
// accessors. Everything downstream (the channel driver, the decode engine,
// the builders) traffics in *Expr values; nothing here talks to a kernel.
package expr

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies the shape of a single expression node.
type Kind uint8

const (
	Invalid Kind = iota
	Integer      // machine-range integer, int64 payload
	BigInteger   // arbitrary-precision integer
	Real         // double-precision real
	BigReal      // arbitrary-precision real
	Rational     // exact rational
	String
	Symbol
	Composite // head applied to zero or more arguments
)

// String returns the kind's kernel-facing name. Atoms report the head name
// the kernel would give them.
func (k Kind) String() string {
	switch k {
	case Integer, BigInteger:
		return "Integer"
	case Real, BigReal:
		return "Real"
	case Rational:
		return "Rational"
	case String:
		return "String"
	case Symbol:
		return "Symbol"
	case Composite:
		return "Composite"
	}
	return "Invalid"
}

// Expr is one immutable node of a symbolic expression tree. Construct via
// the New* functions or Apply; never mutate a node after construction.
type Expr struct {
	kind Kind

	i   int64
	f   float64
	s   string // String text or Symbol name
	bi  *big.Int
	bf  *big.Float
	rat *big.Rat

	head *Expr
	args []*Expr
}

// NewInteger returns a machine-range integer atom.
func NewInteger(v int64) *Expr { return &Expr{kind: Integer, i: v} }

// NewBigInt returns an arbitrary-precision integer atom. The value is
// copied so the caller may keep mutating its own big.Int.
func NewBigInt(v *big.Int) *Expr {
	return &Expr{kind: BigInteger, bi: new(big.Int).Set(v)}
}

// NewReal returns a double-precision real atom.
func NewReal(v float64) *Expr { return &Expr{kind: Real, f: v} }

// NewBigReal returns an arbitrary-precision real atom. The value is copied.
func NewBigReal(v *big.Float) *Expr {
	return &Expr{kind: BigReal, bf: new(big.Float).Set(v)}
}

// NewRational returns an exact rational atom. The value is copied.
func NewRational(v *big.Rat) *Expr {
	return &Expr{kind: Rational, rat: new(big.Rat).Set(v)}
}

// NewString returns a string atom.
func NewString(v string) *Expr { return &Expr{kind: String, s: v} }

// NewSymbol returns a symbol atom with the given display name.
func NewSymbol(name string) *Expr { return &Expr{kind: Symbol, s: name} }

// Apply returns the application of head to args. The argument slice is
// copied.
func Apply(head *Expr, args ...*Expr) *Expr {
	e := &Expr{kind: Composite, head: head}
	if len(args) > 0 {
		e.args = make([]*Expr, len(args))
		copy(e.args, args)
	}
	return e
}

// NewList returns a List[...] application, the kernel's ordered sequence.
func NewList(args ...*Expr) *Expr {
	return Apply(NewSymbol("List"), args...)
}

// Kind returns the node's kind tag.
func (e *Expr) Kind() Kind { return e.kind }

// IsAtom reports whether the node is an atom (anything but an application).
func (e *Expr) IsAtom() bool { return e.kind != Composite }

func (e *Expr) IsInteger() bool    { return e.kind == Integer }
func (e *Expr) IsBigInteger() bool { return e.kind == BigInteger }
func (e *Expr) IsReal() bool       { return e.kind == Real }
func (e *Expr) IsBigReal() bool    { return e.kind == BigReal }
func (e *Expr) IsRational() bool   { return e.kind == Rational }
func (e *Expr) IsString() bool     { return e.kind == String }
func (e *Expr) IsSymbol() bool     { return e.kind == Symbol }
func (e *Expr) IsComposite() bool  { return e.kind == Composite }

// Int64 returns the machine-integer payload. Valid only for Integer nodes.
func (e *Expr) Int64() int64 { return e.i }

// BigInt returns a copy of the arbitrary-precision integer payload.
func (e *Expr) BigInt() *big.Int { return new(big.Int).Set(e.bi) }

// Float64 returns the double payload. Valid only for Real nodes.
func (e *Expr) Float64() float64 { return e.f }

// BigFloat returns a copy of the arbitrary-precision real payload.
func (e *Expr) BigFloat() *big.Float { return new(big.Float).Set(e.bf) }

// Rat returns a copy of the exact rational payload.
func (e *Expr) Rat() *big.Rat { return new(big.Rat).Set(e.rat) }

// Text returns the string payload. Valid only for String nodes.
func (e *Expr) Text() string { return e.s }

// SymbolName returns the symbol's display name. Valid only for Symbol nodes.
func (e *Expr) SymbolName() string { return e.s }

// Head returns the head of an application, or a synthesized symbol naming
// the atom's type for atoms. Every well-formed node has a head.
func (e *Expr) Head() *Expr {
	if e.kind == Composite {
		return e.head
	}
	return NewSymbol(e.kind.String())
}

// HeadName returns the display name of the head when the head is a symbol,
// or "" when the head is itself a composite expression.
func (e *Expr) HeadName() string {
	if e.kind != Composite {
		return e.kind.String()
	}
	if e.head.kind == Symbol {
		return e.head.s
	}
	return ""
}

// Len returns the number of arguments. Atoms have none.
func (e *Expr) Len() int { return len(e.args) }

// Arg returns the i-th argument in original order.
func (e *Expr) Arg(i int) *Expr { return e.args[i] }

// Args returns a copy of the argument slice in original order.
func (e *Expr) Args() []*Expr {
	if len(e.args) == 0 {
		return nil
	}
	out := make([]*Expr, len(e.args))
	copy(out, e.args)
	return out
}

// Equal reports deep structural equality of two expressions.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Integer:
		return a.i == b.i
	case BigInteger:
		return a.bi.Cmp(b.bi) == 0
	case Real:
		return a.f == b.f
	case BigReal:
		return a.bf.Cmp(b.bf) == 0
	case Rational:
		return a.rat.Cmp(b.rat) == 0
	case String, Symbol:
		return a.s == b.s
	case Composite:
		if !Equal(a.head, b.head) || len(a.args) != len(b.args) {
			return false
		}
		for i := range a.args {
			if !Equal(a.args[i], b.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the expression in the kernel's bracketed input syntax.
// The rendering is for logs and diagnostics, not for the wire.
func (e *Expr) String() string {
	var sb strings.Builder
	e.render(&sb)
	return sb.String()
}

func (e *Expr) render(sb *strings.Builder) {
	switch e.kind {
	case Integer:
		sb.WriteString(strconv.FormatInt(e.i, 10))
	case BigInteger:
		sb.WriteString(e.bi.String())
	case Real:
		sb.WriteString(strconv.FormatFloat(e.f, 'g', -1, 64))
	case BigReal:
		sb.WriteString(e.bf.Text('g', -1))
	case Rational:
		fmt.Fprintf(sb, "%s/%s", e.rat.Num(), e.rat.Denom())
	case String:
		sb.WriteString(strconv.Quote(e.s))
	case Symbol:
		sb.WriteString(e.s)
	case Composite:
		e.head.render(sb)
		sb.WriteByte('[')
		for i, a := range e.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			a.render(sb)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString("<invalid>")
	}
}
