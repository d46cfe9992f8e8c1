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
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/go-gremlins/solmutate/cmd/internal/flags"
	"github.com/go-gremlins/solmutate/internal/configfile"
	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/diff"
	"github.com/go-gremlins/solmutate/internal/exclusion"
	"github.com/go-gremlins/solmutate/internal/generator"
	"github.com/go-gremlins/solmutate/internal/generator/workdir"
	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/log"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/report"
)

type mutateCmd struct {
	cmd *cobra.Command
}

const (
	mutateCommandName = "mutate"

	paramFile              = "file"
	paramAllAlgorithms     = "all"
	paramMutation          = "mutation"
	paramNumMutants        = "num-mutants"
	paramRNGSeed           = "rng-seed"
	paramSaveConfigFiles   = "save-config-files"
	paramValidateMutants   = "validate-mutants"
	paramOutput            = "output"
	paramStdout            = "stdout"
	paramPrintOriginal     = "print-original"
	paramFunction          = "function"
	paramSkipKind          = "skip-kind"
	paramSolidityCompiler  = "solidity-compiler"
	paramSolidityBasePath  = "solidity-base-path"
	paramSolidityInclude   = "solidity-include-path"
	paramSolidityAllow     = "solidity-allow-path"
	paramSolidityRemap     = "solidity-remapping"
	paramVyperCompiler     = "vyper-compiler"
	paramVyperRootPath     = "vyper-root-path"
	paramDiff              = "diff"
	paramExcludeFile       = "exclude-file"
	paramConfigFileMgnx    = "mgnx-file"
	paramLanguage          = "language"
)

func newMutateCmd(ctx context.Context, registry *language.Registry) (*mutateCmd, error) {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [path]", mutateCommandName),
		Args:  cobra.ArbitraryArgs,
		Short: "Generate mutants for the given Solidity/Vyper inputs",
		Long:  mutateLongExplainer(),
		RunE:  runMutate(ctx, registry),
	}

	if err := setMutateFlagsOnCmd(cmd); err != nil {
		return nil, err
	}

	return &mutateCmd{cmd: cmd}, nil
}

func mutateLongExplainer() string {
	return heredoc.Doc(`
		Generates mutants for the given Solidity/Vyper source or AST files by
		rewriting eligible AST nodes and pretty-printing the result.

		Each input's mutable nodes are counted for the chosen algorithms, then
		a seeded pseudo-random draw selects which nodes actually get mutated,
		bounded by --num-mutants. Mutants are written one per file under the
		output directory, unless --stdout is set.
	`)
}

func runMutate(ctx context.Context, registry *language.Registry) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log.Infoln("Starting...")

		req, dealer, err := buildRequest(args, registry)
		if err != nil {
			return err
		}

		gen := generator.New(registry, dealer)

		wg := &sync.WaitGroup{}
		wg.Add(1)
		cancelled := false
		var results report.Results
		go runWithCancel(ctx, wg, func(c context.Context) {
			results, err = gen.Run(c, req)
		}, func() {
			cancelled = true
		})
		wg.Wait()
		if cancelled {
			return nil
		}

		report.Do(results)

		return err
	}
}

func runWithCancel(ctx context.Context, wg *sync.WaitGroup, runner func(c context.Context), onCancel func()) {
	c, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		log.Infof("\nShutting down gracefully...\n")
		cancel()
		onCancel()
	}()
	runner(c)
	wg.Done()
}

func buildRequest(args []string, registry *language.Registry) (generator.Request, *workdir.Dealer, error) {
	if err := applyConfigFile(); err != nil {
		return generator.Request{}, nil, err
	}

	files := configuration.GetStringSlice(configuration.MutateFilesKey)
	files = append(files, args...)

	algorithms, err := resolveAlgorithms()
	if err != nil {
		return generator.Request{}, nil, err
	}

	files, err = scopeToDiff(files)
	if err != nil {
		return generator.Request{}, nil, err
	}

	files, err = excludeFiles(files)
	if err != nil {
		return generator.Request{}, nil, err
	}

	output := configuration.Get[string](configuration.MutateOutputKey)
	stdout := configuration.Get[bool](configuration.MutateStdoutKey)

	var dealer *workdir.Dealer
	if !stdout {
		dir := output
		if dir == "" {
			dir = "."
		}
		dealer, err = workdir.NewDealer(dir)
		if err != nil {
			return generator.Request{}, nil, fmt.Errorf("impossible to create the output dir: %w", err)
		}
	}

	req := generator.Request{
		Files:           files,
		Algorithms:      algorithms,
		NumMutants:      configuration.Get[int](configuration.MutateNumMutantsKey),
		Seed:            int64(configuration.Get[int](configuration.MutateRNGSeedKey)),
		Functions:       configuration.GetStringSlice(configuration.MutateFunctionsKey),
		SkipKinds:       configuration.GetStringSlice(configuration.MutateSkipKindsKey),
		ValidateMutants: configuration.Get[bool](configuration.MutateValidateMutantsKey),
		PrintOriginal:   configuration.Get[bool](configuration.MutatePrintOriginalKey),
		Stdout:          stdout,
		SaveConfigFiles: configuration.Get[bool](configuration.MutateSaveConfigFilesKey),
		Compiler:        compilerSettings(registry),
		Language:        configuration.Get[string](configuration.MutateLanguageKey),
	}

	return req, dealer, nil
}

// scopeToDiff restricts files to those touched since the --diff ref, when
// set. An unset ref leaves files untouched.
func scopeToDiff(files []string) ([]string, error) {
	if configuration.Get[string](configuration.MutateDiffRefKey) == "" {
		return files, nil
	}

	d, err := diff.New()
	if err != nil {
		return nil, fmt.Errorf("impossible to compute the diff scope: %w", err)
	}

	scoped := make([]string, 0, len(files))
	for _, f := range files {
		if d.Changed(f) {
			scoped = append(scoped, f)
		}
	}

	return scoped, nil
}

// applyConfigFile loads --mgnx-file, if set, and merges its values over
// whatever the CLI flags already bound (spec §6.2 override order).
func applyConfigFile() error {
	path := configuration.Get[string](configuration.MutateConfigFileKey)
	if path == "" {
		return nil
	}

	cfg, err := configfile.Load(path)
	if err != nil {
		return err
	}

	return configfile.Apply(cfg)
}

// excludeFiles drops any input matching an --exclude-file regex.
func excludeFiles(files []string) ([]string, error) {
	rules, err := exclusion.New()
	if err != nil {
		return nil, fmt.Errorf("impossible to parse exclude-file patterns: %w", err)
	}
	if len(rules) == 0 {
		return files, nil
	}

	kept := make([]string, 0, len(files))
	for _, f := range files {
		if !rules.IsFileExcluded(f) {
			kept = append(kept, f)
		}
	}

	return kept, nil
}

func resolveAlgorithms() ([]mutation.Tag, error) {
	if configuration.Get[bool](configuration.MutateAllAlgorithmsKey) {
		return mutation.Tags, nil
	}

	names := configuration.GetStringSlice(configuration.MutateAlgorithmsKey)
	if len(names) == 0 {
		return mutation.Tags, nil
	}

	algorithms := make([]mutation.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := mutation.ParseTag(name)
		if !ok {
			return nil, fmt.Errorf("unknown mutation algorithm %q", name)
		}
		algorithms = append(algorithms, tag)
	}

	return algorithms, nil
}

func compilerSettings(registry *language.Registry) map[string]language.CompilerSettings {
	settings := make(map[string]language.CompilerSettings)

	if sol, err := registry.Lookup("solidity"); err == nil {
		s := sol.DefaultCompilerSettings()
		if v := configuration.Get[string](configuration.SolidityCompilerKey); v != "" {
			s.Path = v
		}
		if v := configuration.Get[string](configuration.SolidityBasePathKey); v != "" {
			s.BasePath = v
		}
		if v := configuration.GetStringSlice(configuration.SolidityIncludePathsKey); len(v) > 0 {
			s.IncludePaths = v
		}
		if v := configuration.GetStringSlice(configuration.SolidityAllowPathsKey); len(v) > 0 {
			s.AllowPaths = v
		}
		if v := configuration.GetStringSlice(configuration.SolidityRemappingsKey); len(v) > 0 {
			s.Remappings = v
		}
		settings[sol.Tag()] = s
	}

	if vy, err := registry.Lookup("vyper"); err == nil {
		s := vy.DefaultCompilerSettings()
		if v := configuration.Get[string](configuration.VyperCompilerKey); v != "" {
			s.Path = v
		}
		if v := configuration.Get[string](configuration.VyperRootPathKey); v != "" {
			s.RootPath = v
		}
		settings[vy.Tag()] = s
	}

	return settings
}

func setMutateFlagsOnCmd(cmd *cobra.Command) error {
	cmd.Flags().SortFlags = false
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		from := []string{".", "_"}
		to := "-"
		for _, sep := range from {
			name = strings.ReplaceAll(name, sep, to)
		}

		return pflag.NormalizedName(name)
	})

	fls := []*flags.Flag{
		{Name: paramFile, CfgKey: configuration.MutateFilesKey, DefaultV: []string{}, Usage: "an input file to mutate, repeatable"},
		{Name: paramAllAlgorithms, CfgKey: configuration.MutateAllAlgorithmsKey, Shorthand: "a", DefaultV: false, Usage: "select every registered mutation algorithm"},
		{Name: paramMutation, CfgKey: configuration.MutateAlgorithmsKey, DefaultV: []string{}, Usage: "a mutation algorithm tag to select, repeatable"},
		{Name: paramNumMutants, CfgKey: configuration.MutateNumMutantsKey, DefaultV: 1, Usage: "the number of mutants to generate per file"},
		{Name: paramRNGSeed, CfgKey: configuration.MutateRNGSeedKey, DefaultV: 0, Usage: "the seed for the deterministic pseudo-random mutant selection"},
		{Name: paramSaveConfigFiles, CfgKey: configuration.MutateSaveConfigFilesKey, DefaultV: false, Usage: "save the effective invocation as a sibling .mgnx file"},
		{Name: paramValidateMutants, CfgKey: configuration.MutateValidateMutantsKey, DefaultV: false, Usage: "discard mutants that fail to compile"},
		{Name: paramOutput, CfgKey: configuration.MutateOutputKey, Shorthand: "o", DefaultV: "", Usage: "the output directory for generated mutants"},
		{Name: paramStdout, CfgKey: configuration.MutateStdoutKey, DefaultV: false, Usage: "write mutants to stdout instead of files"},
		{Name: paramPrintOriginal, CfgKey: configuration.MutatePrintOriginalKey, DefaultV: false, Usage: "also write a pretty-printed copy of the unmodified input"},
		{Name: paramFunction, CfgKey: configuration.MutateFunctionsKey, DefaultV: []string{}, Usage: "restrict mutation sites to this function name, repeatable"},
		{Name: paramSkipKind, CfgKey: configuration.MutateSkipKindsKey, DefaultV: []string{}, Usage: "exclude this node kind from mutation sites, repeatable"},
		{Name: paramSolidityCompiler, CfgKey: configuration.SolidityCompilerKey, DefaultV: "", Usage: "path to the solc binary"},
		{Name: paramSolidityBasePath, CfgKey: configuration.SolidityBasePathKey, DefaultV: "", Usage: "solc --base-path"},
		{Name: paramSolidityInclude, CfgKey: configuration.SolidityIncludePathsKey, DefaultV: []string{}, Usage: "solc --include-path, repeatable"},
		{Name: paramSolidityAllow, CfgKey: configuration.SolidityAllowPathsKey, DefaultV: []string{}, Usage: "solc --allow-paths entry, repeatable"},
		{Name: paramSolidityRemap, CfgKey: configuration.SolidityRemappingsKey, DefaultV: []string{}, Usage: "solc import remapping context:prefix=path, repeatable"},
		{Name: paramVyperCompiler, CfgKey: configuration.VyperCompilerKey, DefaultV: "", Usage: "path to the vyper binary"},
		{Name: paramVyperRootPath, CfgKey: configuration.VyperRootPathKey, DefaultV: "", Usage: "vyper -p root path"},
		{Name: paramDiff, CfgKey: configuration.MutateDiffRefKey, DefaultV: "", Usage: "scope mutation to files changed since this git ref"},
		{Name: paramExcludeFile, CfgKey: configuration.MutateExcludeFilesKey, DefaultV: []string{}, Usage: "exclude input files matching this regexp, repeatable"},
		{Name: paramConfigFileMgnx, CfgKey: configuration.MutateConfigFileKey, DefaultV: "", Usage: "load a .mgnx invocation config, overriding these flags"},
		{Name: paramLanguage, CfgKey: configuration.MutateLanguageKey, DefaultV: "", Usage: "assert every input belongs to this language tag (no mixing)"},
	}

	for _, f := range fls {
		if err := flags.Set(cmd, f); err != nil {
			return err
		}
	}

	return nil
}
