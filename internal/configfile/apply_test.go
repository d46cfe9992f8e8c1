package configfile

import (
	"testing"

	"github.com/go-gremlins/solmutate/internal/configuration"
)

func TestApply(t *testing.T) {
	t.Run("nil config is a no-op", func(t *testing.T) {
		defer configuration.Reset()

		if err := Apply(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("merges present scalar and compiler-details fields", func(t *testing.T) {
		defer configuration.Reset()

		numMutants := 5
		cfg := &Config{
			Filenames:  []string{"Token.sol"},
			Language:   "solidity",
			NumMutants: &numMutants,
			CompilerDetails: map[string]CompilerDetails{
				"solidity": {Path: "solc", BasePath: "contracts"},
			},
		}

		if err := Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := configuration.Get[string](configuration.MutateLanguageKey); got != "solidity" {
			t.Errorf("want language solidity, got %q", got)
		}
		if got := configuration.Get[int](configuration.MutateNumMutantsKey); got != 5 {
			t.Errorf("want num-mutants 5, got %d", got)
		}
		if got := configuration.Get[string](configuration.SolidityCompilerKey); got != "solc" {
			t.Errorf("want solidity compiler solc, got %q", got)
		}
		if got := configuration.Get[string](configuration.SolidityBasePathKey); got != "contracts" {
			t.Errorf("want solidity base-path contracts, got %q", got)
		}
	})

	t.Run("rejects unknown compiler-details tag", func(t *testing.T) {
		defer configuration.Reset()

		cfg := &Config{
			CompilerDetails: map[string]CompilerDetails{
				"cobol": {Path: "whatever"},
			},
		}

		if err := Apply(cfg); err == nil {
			t.Fatal("expected an error for the unknown language tag")
		}
	})

	t.Run("vyper compiler details", func(t *testing.T) {
		defer configuration.Reset()

		cfg := &Config{
			CompilerDetails: map[string]CompilerDetails{
				"vyper": {Path: "vyper", RootPath: "/root"},
			},
		}

		if err := Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := configuration.Get[string](configuration.VyperCompilerKey); got != "vyper" {
			t.Errorf("want vyper compiler vyper, got %q", got)
		}
		if got := configuration.Get[string](configuration.VyperRootPathKey); got != "/root" {
			t.Errorf("want vyper root-path /root, got %q", got)
		}
	})
}
