package kernelink_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kernelink/kernelink"
	"github.com/kernelink/kernelink/convert"
	"github.com/kernelink/kernelink/expr"
	"github.com/kernelink/kernelink/linktest"
)

// arithScript is a minimal kernel stand-in: it parses nothing but answers
// the hold round trip and evaluates Plus over integers.
func arithScript(req *expr.Expr) *expr.Expr {
	switch req.HeadName() {
	case "ToExpression":
		if req.Arg(0).Text() == "1+1" {
			return expr.Apply(expr.NewSymbol("HoldComplete"),
				expr.Apply(expr.NewSymbol("Plus"), expr.NewInteger(1), expr.NewInteger(1)))
		}
		return expr.Apply(expr.NewSymbol("HoldComplete"))
	case "Plus":
		sum := int64(0)
		for i := 0; i < req.Len(); i++ {
			sum += req.Arg(i).Int64()
		}
		return expr.NewInteger(sum)
	}
	return req
}

func TestEvaluateText(t *testing.T) {
	d := kernelink.NewDriver(linktest.NewScripted(arithScript))

	got, err := kernelink.Evaluate(context.Background(), "1+1", d)
	if err != nil {
		t.Fatalf("Evaluate(1+1) failed: %v", err)
	}
	if got != int64(2) {
		t.Errorf("Evaluate(1+1) = %v (%T), want 2", got, got)
	}
}

func TestEvaluateExpression(t *testing.T) {
	d := kernelink.NewDriver(linktest.NewScripted(arithScript))

	in := kernelink.BuildApplication("Plus", expr.NewInteger(20), expr.NewInteger(22))
	got, err := kernelink.Evaluate(context.Background(), in, d)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if got != int64(42) {
		t.Errorf("Evaluate(Plus[20, 22]) = %v, want 42", got)
	}
}

func TestEvaluateAbsent(t *testing.T) {
	d := kernelink.NewDriver(linktest.NewEcho())
	got, err := kernelink.Evaluate(context.Background(), nil, d)
	if err != nil {
		t.Fatalf("Evaluate(nil) failed: %v", err)
	}
	if got != nil {
		t.Errorf("Evaluate(nil) = %v, want nil", got)
	}
}

func TestEvaluateWithOptions(t *testing.T) {
	d := kernelink.NewDriver(linktest.NewEcho())
	got, err := kernelink.Evaluate(context.Background(), expr.NewSymbol("foo"), d,
		convert.WithAliases(map[string]string{"foo": "bar"}))
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if got != kernelink.Symbol("bar") {
		t.Errorf("Evaluate(foo) = %v, want bar", got)
	}
}

const sampleConfig = `
[aliases]
foo = "bar"

[flags]
realization = "finite-lazy"
numeric_coercion = true
verbose = true
`

func TestParseConfig(t *testing.T) {
	cfg, err := kernelink.ParseConfig(sampleConfig)
	if err != nil {
		t.Fatalf("ParseConfig() failed: %v", err)
	}

	// The alias table from the file is live in the bundle.
	h, err := kernelink.Normalize(context.Background(), expr.NewSymbol("foo"), nil)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	v, err := kernelink.Decode(context.Background(), h, cfg)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if v != kernelink.Symbol("bar") {
		t.Errorf("decoded %v, want bar", v)
	}

	// And so is the realization mode.
	h, err = kernelink.Normalize(context.Background(), expr.NewList(expr.NewString("a"), expr.NewString("b")), nil)
	if err != nil {
		t.Fatalf("Normalize() failed: %v", err)
	}
	v, err = kernelink.Decode(context.Background(), h, cfg)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	seq, ok := v.(kernelink.Seq)
	if !ok {
		t.Fatalf("decoded as %T, want Seq", v)
	}
	all, err := convert.CollectSeq(seq)
	if err != nil {
		t.Fatalf("CollectSeq() failed: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, all); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigUnknownRealization(t *testing.T) {
	_, err := kernelink.ParseConfig("[flags]\nrealization = \"bogus\"\n")
	if err == nil {
		t.Fatalf("ParseConfig() accepted unknown realization")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernelink.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := kernelink.LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if _, err := kernelink.LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("LoadConfig() on missing file succeeded")
	}
}
