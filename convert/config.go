// Package convert translates between kernel expressions and native Go
// values: a type-directed decode engine, an encode primitive, and builders
// for composite requests. Behavior is tuned by an immutable Config bundle
// threaded through every recursive step and captured by every closure and
// lazy stage the engine produces.
package convert

import (
	"context"
	"log/slog"

	"github.com/kernelink/kernelink/link"
)

// Realization selects how decoded sequences are materialized.
type Realization int

const (
	// Vectors realizes sequences eagerly as []any.
	Vectors Realization = iota
	// FiniteLazy defers per-element decoding until the sequence is
	// pulled; nested structures realize eagerly at pull time.
	FiniteLazy
	// LazyOfLazy defers per-element decoding and keeps nested sequences
	// lazy as well.
	LazyOfLazy
)

// Config is the call-scoped bundle of decode/encode behavior plus the
// active channel driver. A Config is immutable: With derives a new bundle,
// and closures or lazy stages snapshot the bundle active at their creation
// rather than reading ambient state at use time.
type Config struct {
	realization     Realization
	fullForm        bool
	asFunction      bool
	numericCoercion bool
	strict          bool
	verbose         bool
	logger          *slog.Logger
	aliases         map[string]string // kernel symbol name -> host identifier
	reverse         map[string]string // host identifier -> kernel symbol name
	driver          *link.Driver
}

// Option configures a Config.
type Option func(*Config)

// WithRealization selects the sequence realization mode.
func WithRealization(r Realization) Option {
	return func(c *Config) { c.realization = r }
}

// FullForm decodes every expression as a raw head+arguments node,
// bypassing specialized atom-array, function, and map interpretation.
func FullForm() Option {
	return func(c *Config) { c.fullForm = true }
}

// Structured restores the default structural decoding of functions and
// maps. It is the inverse of FullForm.
func Structured() Option {
	return func(c *Config) { c.fullForm = false }
}

// AsFunction treats the whole expression as a template and decodes it as
// a callable.
func AsFunction() Option {
	return func(c *Config) { c.asFunction = true }
}

// NumericCoercion coerces homogeneous numeric arrays to doubles in bulk,
// bypassing per-element atom decoding.
func NumericCoercion() Option {
	return func(c *Config) { c.numericCoercion = true }
}

// Strict surfaces kernel-reported evaluation failures as errors instead of
// decoded failure-shaped values.
func Strict() Option {
	return func(c *Config) { c.strict = true }
}

// Verbose enables diagnostic tracing around vector, matrix, map, and
// function decoding.
func Verbose() Option {
	return func(c *Config) { c.verbose = true }
}

// WithLogger sets the logger used when tracing is enabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// WithAliases installs the symbol alias table mapping kernel symbol names
// to host identifiers. The table is copied and its inverse computed once;
// later mutation of the caller's map is not observed.
func WithAliases(aliases map[string]string) Option {
	return func(c *Config) {
		c.aliases = make(map[string]string, len(aliases))
		c.reverse = make(map[string]string, len(aliases))
		for foreign, host := range aliases {
			c.aliases[foreign] = host
			c.reverse[host] = foreign
		}
	}
}

// WithDriver sets the active channel driver captured by callables decoded
// under this bundle.
func WithDriver(d *link.Driver) Option {
	return func(c *Config) { c.driver = d }
}

// NewConfig builds a Config from defaults (eager vectors, structured
// decoding, no coercion, non-strict) plus the given options.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// With derives a new bundle with the named overrides. The receiver is not
// mutated.
func (c Config) With(opts ...Option) Config {
	derived := c
	for _, opt := range opts {
		opt(&derived)
	}
	return derived
}

// Driver returns the active channel driver, or nil.
func (c Config) Driver() *link.Driver { return c.driver }

func (c Config) trace(ctx context.Context, msg string, args ...any) {
	if !c.verbose {
		return
	}
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, msg, args...)
}
