package expr

import "math/big"

// isElementKind reports whether k is one of the atom kinds a homogeneous
// array may hold.
func isElementKind(k Kind) bool {
	switch k {
	case Integer, BigInteger, Real, BigReal, String, Rational, Symbol:
		return true
	}
	return false
}

// IsNumericKind reports whether k is one of the four numeric atom kinds
// eligible for bulk coercion to doubles.
func IsNumericKind(k Kind) bool {
	switch k {
	case Integer, BigInteger, Real, BigReal:
		return true
	}
	return false
}

// VectorKind probes the node for a homogeneous one-dimensional array: a
// List application whose every argument is an atom of one supported kind.
// It returns that kind. Empty lists and mixed lists do not qualify.
func (e *Expr) VectorKind() (Kind, bool) {
	if e.kind != Composite || e.HeadName() != "List" || len(e.args) == 0 {
		return Invalid, false
	}
	k := e.args[0].kind
	if !isElementKind(k) {
		return Invalid, false
	}
	for _, a := range e.args[1:] {
		if a.kind != k {
			return Invalid, false
		}
	}
	return k, true
}

// MatrixKind probes the node for a homogeneous two-dimensional array: a
// List of rows where every row is a homogeneous vector of one shared kind.
// Row lengths need not agree; element kind must.
func (e *Expr) MatrixKind() (Kind, bool) {
	if e.kind != Composite || e.HeadName() != "List" || len(e.args) == 0 {
		return Invalid, false
	}
	k, ok := e.args[0].VectorKind()
	if !ok {
		return Invalid, false
	}
	for _, row := range e.args[1:] {
		rk, ok := row.VectorKind()
		if !ok || rk != k {
			return Invalid, false
		}
	}
	return k, true
}

// Float64Vector coerces a homogeneous numeric vector to a flat double
// array in one pass. It reports false when the node is not a numeric
// vector.
func (e *Expr) Float64Vector() ([]float64, bool) {
	k, ok := e.VectorKind()
	if !ok || !IsNumericKind(k) {
		return nil, false
	}
	out := make([]float64, len(e.args))
	for i, a := range e.args {
		out[i] = a.asFloat64()
	}
	return out, true
}

// Float64Matrix coerces a homogeneous numeric matrix to rows of doubles.
func (e *Expr) Float64Matrix() ([][]float64, bool) {
	k, ok := e.MatrixKind()
	if !ok || !IsNumericKind(k) {
		return nil, false
	}
	out := make([][]float64, len(e.args))
	for i, row := range e.args {
		v, _ := row.Float64Vector()
		out[i] = v
	}
	return out, true
}

func (e *Expr) asFloat64() float64 {
	switch e.kind {
	case Integer:
		return float64(e.i)
	case BigInteger:
		f, _ := new(big.Float).SetInt(e.bi).Float64()
		return f
	case Real:
		return e.f
	case BigReal:
		f, _ := e.bf.Float64()
		return f
	case Rational:
		f, _ := e.rat.Float64()
		return f
	}
	return 0
}
