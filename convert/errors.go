package convert

import "errors"

var (
	// ErrMalformedMap marks a map wrapper whose single argument is
	// neither a rule list nor a Dispatch-wrapped rule list.
	ErrMalformedMap = errors.New("malformed map expression")

	// ErrDecodeExhaustion marks runaway decode recursion. Well-formed
	// finite trees never hit it.
	ErrDecodeExhaustion = errors.New("decode recursion exhausted")

	// ErrUnsupportedValue marks a native value the encoder has no kernel
	// representation for.
	ErrUnsupportedValue = errors.New("unsupported native value")
)
