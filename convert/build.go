package convert

import (
	"fmt"

	"github.com/kernelink/kernelink/expr"
)

// BuildApplication builds the application of a named head to args.
func BuildApplication(head string, args ...*expr.Expr) *expr.Expr {
	return expr.Apply(expr.NewSymbol(head), args...)
}

// Binding is one (name, value) pair of a lexical binding block. The value
// passes through Encode.
type Binding struct {
	Name  string
	Value any
}

type bindingConfig struct {
	allOutput bool
	parallel  bool
}

// BindingOption configures BuildBinding.
type BindingOption func(*bindingConfig)

// AllOutput packages every body expression's value into a list instead of
// keeping only the final value.
func AllOutput() BindingOption {
	return func(bc *bindingConfig) { bc.allOutput = true }
}

// Parallel wraps the block for asynchronous submission, duplicating the
// bound variable names into the submission wrapper.
func Parallel() BindingOption {
	return func(bc *bindingConfig) { bc.parallel = true }
}

// BuildBinding builds a lexical-scoping block binding each pair as a local
// variable and sequencing the body expressions left to right. By default
// only the final body expression's value is produced; AllOutput retains
// every value, and Parallel wraps the block for distributed submission.
func BuildBinding(bindings []Binding, body []*expr.Expr, opts ...BindingOption) (*expr.Expr, error) {
	var bc bindingConfig
	for _, opt := range opts {
		opt(&bc)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("binding block requires at least one body expression")
	}

	sets := make([]*expr.Expr, len(bindings))
	names := make([]*expr.Expr, len(bindings))
	for i, b := range bindings {
		if b.Name == "" {
			return nil, fmt.Errorf("binding %d: empty variable name", i)
		}
		val, err := Encode(b.Value)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", b.Name, err)
		}
		sets[i] = expr.Apply(expr.NewSymbol("Set"), expr.NewSymbol(b.Name), val)
		names[i] = expr.NewSymbol(b.Name)
	}

	var out *expr.Expr
	switch {
	case bc.allOutput:
		out = expr.NewList(body...)
	case len(body) == 1:
		out = body[0]
	default:
		out = expr.Apply(expr.NewSymbol("CompoundExpression"), body...)
	}

	block := expr.Apply(expr.NewSymbol("With"), expr.NewList(sets...), out)
	if bc.parallel {
		block = expr.Apply(expr.NewSymbol("ParallelSubmit"), expr.NewList(names...), block)
	}
	return block, nil
}
