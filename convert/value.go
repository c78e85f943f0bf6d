package convert

import (
	"fmt"
	"iter"
	"math/big"
	"reflect"
	"strings"
)

// Symbol is a host identifier decoded from a kernel symbol. The kernel's
// backquote context separator reads as "/" on the host side, so
// "Global`x" decodes to Symbol("Global/x").
type Symbol string

// Node is the opaque generic fallback for expressions no specialized
// decoder recognizes: a decoded head plus ordered decoded children.
type Node struct {
	Head     any
	Children []any
}

func (n *Node) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v[", n.Head)
	for i, c := range n.Children {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", c)
	}
	sb.WriteByte(']')
	return sb.String()
}

// Entry is one key/value pair of an Assoc, in decoded order.
type Entry struct {
	Key   any
	Value any
}

// Assoc is an ordered associative mapping of native values to native
// values, decoded from the kernel's map wrapper. Rule order is preserved.
type Assoc struct {
	entries []Entry
}

// NewAssoc builds an Assoc from entries in order.
func NewAssoc(entries ...Entry) *Assoc {
	a := &Assoc{entries: make([]Entry, len(entries))}
	copy(a.entries, entries)
	return a
}

// Len returns the number of entries.
func (a *Assoc) Len() int { return len(a.entries) }

// Entries returns a copy of the entries in order.
func (a *Assoc) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Get returns the value for the first entry whose key is structurally
// equal to key.
func (a *Assoc) Get(key any) (any, bool) {
	for _, e := range a.entries {
		if equalValue(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Seq is a lazily realized decoded sequence. Each pull yields the next
// element or the error that producing it hit. Realization is pull-based
// and safe to abandon partway; the only captured state is the immutable
// configuration snapshot and the in-memory expression tree.
type Seq = iter.Seq2[any, error]

// CollectSeq fully realizes a lazy sequence, stopping at the first error.
func CollectSeq(s Seq) ([]any, error) {
	var out []any
	for v, err := range s {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// equalValue reports structural equality of two decoded native values.
func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	case *big.Rat:
		bv, ok := b.(*big.Rat)
		return ok && av.Cmp(bv) == 0
	case *big.Float:
		bv, ok := b.(*big.Float)
		return ok && av.Cmp(bv) == 0
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Assoc:
		bv, ok := b.(*Assoc)
		if !ok || len(av.entries) != len(bv.entries) {
			return false
		}
		for i := range av.entries {
			if !equalValue(av.entries[i].Key, bv.entries[i].Key) ||
				!equalValue(av.entries[i].Value, bv.entries[i].Value) {
				return false
			}
		}
		return true
	case *Node:
		bv, ok := b.(*Node)
		if !ok || !equalValue(av.Head, bv.Head) || len(av.Children) != len(bv.Children) {
			return false
		}
		for i := range av.Children {
			if !equalValue(av.Children[i], bv.Children[i]) {
				return false
			}
		}
		return true
	}
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
