package convert

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"

	"github.com/kernelink/kernelink/expr"
	"github.com/kernelink/kernelink/link"
)

// Encode converts a native value into its kernel expression under the
// default configuration (no alias table).
func Encode(v any) (*expr.Expr, error) {
	return EncodeWith(Config{}, v)
}

// EncodeWith converts a native value into its kernel expression, applying
// cfg's alias table to symbols. Nested sequences, mappings, and generic
// nodes encode recursively; lazy sequences are fully realized.
func EncodeWith(cfg Config, v any) (*expr.Expr, error) {
	switch v := v.(type) {
	case nil:
		return expr.NewSymbol("Null"), nil
	case bool:
		if v {
			return expr.NewSymbol("True"), nil
		}
		return expr.NewSymbol("False"), nil
	case int:
		return expr.NewInteger(int64(v)), nil
	case int8:
		return expr.NewInteger(int64(v)), nil
	case int16:
		return expr.NewInteger(int64(v)), nil
	case int32:
		return expr.NewInteger(int64(v)), nil
	case int64:
		return expr.NewInteger(v), nil
	case uint8:
		return expr.NewInteger(int64(v)), nil
	case uint16:
		return expr.NewInteger(int64(v)), nil
	case uint32:
		return expr.NewInteger(int64(v)), nil
	case uint:
		return encodeUint64(uint64(v)), nil
	case uint64:
		return encodeUint64(v), nil
	case *big.Int:
		return expr.NewBigInt(v), nil
	case *big.Rat:
		return expr.NewRational(v), nil
	case float32:
		return expr.NewReal(float64(v)), nil
	case float64:
		return expr.NewReal(v), nil
	case *big.Float:
		return expr.NewBigReal(v), nil
	case string:
		return expr.NewString(v), nil
	case Symbol:
		return encodeSymbol(cfg, v), nil
	case *expr.Expr:
		return v, nil
	case *link.Handle:
		return v.Expr(), nil
	case *Callable:
		return v.head, nil
	case *Node:
		return encodeNode(cfg, v)
	case *Assoc:
		return encodeAssoc(cfg, v)
	case []any:
		return encodeSlice(cfg, v)
	case []float64:
		args := make([]*expr.Expr, len(v))
		for i, f := range v {
			args[i] = expr.NewReal(f)
		}
		return expr.NewList(args...), nil
	case []int64:
		args := make([]*expr.Expr, len(v))
		for i, n := range v {
			args[i] = expr.NewInteger(n)
		}
		return expr.NewList(args...), nil
	case Seq:
		realized, err := CollectSeq(v)
		if err != nil {
			return nil, fmt.Errorf("encode lazy sequence: %w", err)
		}
		return encodeSlice(cfg, realized)
	}
	return encodeReflect(cfg, v)
}

func encodeUint64(v uint64) *expr.Expr {
	if v > math.MaxInt64 {
		return expr.NewBigInt(new(big.Int).SetUint64(v))
	}
	return expr.NewInteger(int64(v))
}

// encodeSymbol reverses the alias table when the host identifier is
// aliased, and otherwise maps the host namespace separator back to the
// kernel's backquote.
func encodeSymbol(cfg Config, s Symbol) *expr.Expr {
	if foreign, ok := cfg.reverse[string(s)]; ok {
		return expr.NewSymbol(foreign)
	}
	return expr.NewSymbol(strings.ReplaceAll(string(s), "/", "`"))
}

func encodeSlice(cfg Config, vs []any) (*expr.Expr, error) {
	args := make([]*expr.Expr, len(vs))
	for i, v := range vs {
		e, err := EncodeWith(cfg, v)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return expr.NewList(args...), nil
}

func encodeNode(cfg Config, n *Node) (*expr.Expr, error) {
	head, err := EncodeWith(cfg, n.Head)
	if err != nil {
		return nil, err
	}
	args := make([]*expr.Expr, len(n.Children))
	for i, c := range n.Children {
		e, err := EncodeWith(cfg, c)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return expr.Apply(head, args...), nil
}

func encodeAssoc(cfg Config, a *Assoc) (*expr.Expr, error) {
	rules := make([]*expr.Expr, 0, a.Len())
	for _, entry := range a.Entries() {
		k, err := EncodeWith(cfg, entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := EncodeWith(cfg, entry.Value)
		if err != nil {
			return nil, err
		}
		rules = append(rules, expr.Apply(expr.NewSymbol("Rule"), k, v))
	}
	return expr.Apply(expr.NewSymbol("HashMapObject"), expr.NewList(rules...)), nil
}

// encodeReflect handles remaining slices, arrays, and maps structurally.
// Go maps have no iteration order, so their rules are sorted by rendered
// key for a deterministic wire form.
func encodeReflect(cfg Config, v any) (*expr.Expr, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		args := make([]*expr.Expr, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			e, err := EncodeWith(cfg, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		return expr.NewList(args...), nil
	case reflect.Map:
		type rule struct {
			key  string
			rule *expr.Expr
		}
		rules := make([]rule, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := EncodeWith(cfg, iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			val, err := EncodeWith(cfg, iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule{key: k.String(), rule: expr.Apply(expr.NewSymbol("Rule"), k, val)})
		}
		sort.Slice(rules, func(i, j int) bool { return rules[i].key < rules[j].key })
		args := make([]*expr.Expr, len(rules))
		for i, r := range rules {
			args[i] = r.rule
		}
		return expr.Apply(expr.NewSymbol("HashMapObject"), expr.NewList(args...)), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}
