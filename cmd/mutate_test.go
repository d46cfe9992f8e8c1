/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/language/solidity"
	"github.com/go-gremlins/solmutate/internal/language/vyper"
	"github.com/go-gremlins/solmutate/internal/mutation"
)

func newTestRegistry() *language.Registry {
	r := language.NewRegistry()
	r.Register(solidity.New())
	r.Register(vyper.New())

	return r
}

func TestResolveAlgorithms(t *testing.T) {
	t.Run("defaults to every tag when nothing is selected", func(t *testing.T) {
		defer configuration.Reset()

		got, err := resolveAlgorithms()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cmp.Equal(got, mutation.Tags) {
			t.Errorf(cmp.Diff(got, mutation.Tags))
		}
	})

	t.Run("-a selects every tag regardless of --mutation", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateAllAlgorithmsKey, true)
		configuration.Set(configuration.MutateAlgorithmsKey, []string{"Require"})

		got, err := resolveAlgorithms()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cmp.Equal(got, mutation.Tags) {
			t.Errorf(cmp.Diff(got, mutation.Tags))
		}
	})

	t.Run("--mutation selects the named tags", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateAlgorithmsKey, []string{"Require", "IfStatement"})

		got, err := resolveAlgorithms()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []mutation.Tag{mutation.Require, mutation.IfStatement}
		if !cmp.Equal(got, want) {
			t.Errorf(cmp.Diff(got, want))
		}
	})

	t.Run("rejects an unknown tag name", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateAlgorithmsKey, []string{"NoSuchTag"})

		if _, err := resolveAlgorithms(); err == nil {
			t.Fatal("expected an error for the unknown tag")
		}
	})
}

func TestScopeToDiff(t *testing.T) {
	t.Run("is a no-op when --diff is unset", func(t *testing.T) {
		defer configuration.Reset()

		files := []string{"Token.sol", "Vault.sol"}

		got, err := scopeToDiff(files)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cmp.Equal(got, files) {
			t.Errorf(cmp.Diff(got, files))
		}
	})
}

func TestExcludeFiles(t *testing.T) {
	t.Run("is a no-op with no exclude patterns", func(t *testing.T) {
		defer configuration.Reset()

		files := []string{"Token.sol", "Vault.sol"}

		got, err := excludeFiles(files)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cmp.Equal(got, files) {
			t.Errorf(cmp.Diff(got, files))
		}
	})

	t.Run("drops files matching an exclude pattern", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateExcludeFilesKey, []string{"_test\\.sol$"})

		got, err := excludeFiles([]string{"Token.sol", "Token_test.sol", "Vault.sol"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"Token.sol", "Vault.sol"}
		if !cmp.Equal(got, want) {
			t.Errorf(cmp.Diff(got, want))
		}
	})

	t.Run("rejects an invalid exclude pattern", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateExcludeFilesKey, []string{"("})

		if _, err := excludeFiles([]string{"Token.sol"}); err == nil {
			t.Fatal("expected an error for the invalid regexp")
		}
	})
}

func TestApplyConfigFile(t *testing.T) {
	t.Run("is a no-op when --mgnx-file is unset", func(t *testing.T) {
		defer configuration.Reset()

		if err := applyConfigFile(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("loads and applies a .mgnx file, overriding the CLI-bound value", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateLanguageKey, "vyper")

		path := filepath.Join(t.TempDir(), "invocation.mgnx")
		content := `{"language": "solidity", "filenames": ["Token.sol"]}`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		configuration.Set(configuration.MutateConfigFileKey, path)

		if err := applyConfigFile(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := configuration.Get[string](configuration.MutateLanguageKey); got != "solidity" {
			t.Errorf("want language solidity, got %q", got)
		}
	})

	t.Run("rejects a non-.mgnx path", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.MutateConfigFileKey, "invocation.yaml")

		if err := applyConfigFile(); err == nil {
			t.Fatal("expected an error for the rejected extension")
		}
	})
}

func TestCompilerSettings(t *testing.T) {
	t.Run("falls back to each language's defaults", func(t *testing.T) {
		defer configuration.Reset()

		registry := newTestRegistry()
		sol, _ := registry.Lookup("solidity")
		vy, _ := registry.Lookup("vyper")

		got := compilerSettings(registry)

		if !cmp.Equal(got["solidity"], sol.DefaultCompilerSettings()) {
			t.Errorf(cmp.Diff(got["solidity"], sol.DefaultCompilerSettings()))
		}
		if !cmp.Equal(got["vyper"], vy.DefaultCompilerSettings()) {
			t.Errorf(cmp.Diff(got["vyper"], vy.DefaultCompilerSettings()))
		}
	})

	t.Run("overrides with configured solidity settings", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.SolidityCompilerKey, "solc")
		configuration.Set(configuration.SolidityBasePathKey, "contracts")
		configuration.Set(configuration.SolidityIncludePathsKey, []string{"lib"})
		configuration.Set(configuration.SolidityAllowPathsKey, []string{"lib", "node_modules"})
		configuration.Set(configuration.SolidityRemappingsKey, []string{"@oz/=lib/openzeppelin/"})

		registry := newTestRegistry()
		got := compilerSettings(registry)["solidity"]

		if got.Path != "solc" {
			t.Errorf("want path solc, got %q", got.Path)
		}
		if got.BasePath != "contracts" {
			t.Errorf("want base-path contracts, got %q", got.BasePath)
		}
		if !cmp.Equal(got.IncludePaths, []string{"lib"}) {
			t.Errorf(cmp.Diff(got.IncludePaths, []string{"lib"}))
		}
		if !cmp.Equal(got.Remappings, []string{"@oz/=lib/openzeppelin/"}) {
			t.Errorf(cmp.Diff(got.Remappings, []string{"@oz/=lib/openzeppelin/"}))
		}
	})

	t.Run("overrides with configured vyper settings", func(t *testing.T) {
		defer configuration.Reset()

		configuration.Set(configuration.VyperCompilerKey, "vyper")
		configuration.Set(configuration.VyperRootPathKey, "/root")

		registry := newTestRegistry()
		got := compilerSettings(registry)["vyper"]

		if got.Path != "vyper" {
			t.Errorf("want path vyper, got %q", got.Path)
		}
		if got.RootPath != "/root" {
			t.Errorf("want root-path /root, got %q", got.RootPath)
		}
	})
}
