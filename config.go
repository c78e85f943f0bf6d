package kernelink

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/kernelink/kernelink/convert"
)

// fileConfig is the TOML shape for file-backed translation defaults.
type fileConfig struct {
	// Aliases maps kernel symbol names to host identifiers.
	Aliases map[string]string `toml:"aliases"`
	Flags   struct {
		Realization     string `toml:"realization"` // "vectors", "finite-lazy", "lazy-of-lazy"
		FullForm        bool   `toml:"full_form"`
		NumericCoercion bool   `toml:"numeric_coercion"`
		Strict          bool   `toml:"strict"`
		Verbose         bool   `toml:"verbose"`
	} `toml:"flags"`
}

// LoadConfig reads translation defaults (alias table, decode flags) from a
// TOML file and builds a Config from them plus any extra options.
func LoadConfig(path string, opts ...convert.Option) (convert.Config, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return convert.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return fc.build(opts)
}

// ParseConfig builds a Config from TOML source text.
func ParseConfig(data string, opts ...convert.Option) (convert.Config, error) {
	var fc fileConfig
	if _, err := toml.Decode(data, &fc); err != nil {
		return convert.Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fc.build(opts)
}

func (fc *fileConfig) build(extra []convert.Option) (convert.Config, error) {
	var opts []convert.Option
	switch fc.Flags.Realization {
	case "", "vectors":
		opts = append(opts, convert.WithRealization(convert.Vectors))
	case "finite-lazy":
		opts = append(opts, convert.WithRealization(convert.FiniteLazy))
	case "lazy-of-lazy":
		opts = append(opts, convert.WithRealization(convert.LazyOfLazy))
	default:
		return convert.Config{}, fmt.Errorf("parse config: unknown realization %q", fc.Flags.Realization)
	}
	if fc.Flags.FullForm {
		opts = append(opts, convert.FullForm())
	}
	if fc.Flags.NumericCoercion {
		opts = append(opts, convert.NumericCoercion())
	}
	if fc.Flags.Strict {
		opts = append(opts, convert.Strict())
	}
	if fc.Flags.Verbose {
		opts = append(opts, convert.Verbose())
	}
	if len(fc.Aliases) > 0 {
		opts = append(opts, convert.WithAliases(fc.Aliases))
	}
	return convert.NewConfig(append(opts, extra...)...), nil
}
