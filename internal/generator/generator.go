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

// Package generator implements the MutationGenerator orchestration (spec
// §4.8): per input file, load or compile its AST, count mutable nodes for
// the requested algorithms, draw a uniform-over-sites sample without
// replacement, mutate/comment/pretty-print each draw and write it out.
//
// Per spec §5, drawing within one file is single-threaded and synchronous -
// the PRNG stream and mutant ordering are part of the deterministic output
// contract - while independent input files are trivially parallel, so this
// package fans files (not draws) out across internal/generator/workerpool,
// mirroring the shape of the teacher's internal/engine.Engine.Run.
package generator

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/configfile"
	"github.com/go-gremlins/solmutate/internal/execution"
	"github.com/go-gremlins/solmutate/internal/generator/workdir"
	"github.com/go-gremlins/solmutate/internal/generator/workerpool"
	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/log"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/recognizer"
	"github.com/go-gremlins/solmutate/internal/report"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// Request is one invocation's resolved parameters (spec §6.1 flags / §6.2
// .mgnx fields), assembled by the CLI layer before Run is called.
type Request struct {
	Files           []string
	Algorithms      []mutation.Tag
	NumMutants      int
	Seed            int64
	Functions       []string
	SkipKinds       []string
	ValidateMutants bool
	PrintOriginal   bool
	Stdout          bool
	SaveConfigFiles bool
	Compiler        map[string]language.CompilerSettings // keyed by language Tag()

	// Language, when set (spec §6.2 "no mixing"), asserts every input
	// belongs to this language tag; a file recognized under a different
	// language is a fatal UnsupportedLanguage error.
	Language string
}

func (req Request) settingsFor(l language.MutableLanguage) language.CompilerSettings {
	if s, ok := req.Compiler[l.Tag()]; ok {
		return s
	}

	return l.DefaultCompilerSettings()
}

func (req Request) permissions() astx.Permissions {
	return astx.NewPermissions(req.Functions, req.SkipKinds)
}

// Generator runs the batch described by a Request against a language
// Registry, writing mutants via a workdir.Dealer.
type Generator struct {
	registry   *language.Registry
	recognizer *recognizer.Recognizer
	dealer     *workdir.Dealer
}

// New builds a Generator. dealer may only be nil when every Run it serves
// sets Request.Stdout.
func New(registry *language.Registry, dealer *workdir.Dealer) *Generator {
	return &Generator{registry: registry, recognizer: recognizer.New(registry), dealer: dealer}
}

type execFunc func(w *workerpool.Worker)

func (f execFunc) Start(w *workerpool.Worker) { f(w) }

// Run executes req across all of its Files, one workerpool Worker per file,
// and returns the aggregate report.Results. The returned error is non-nil
// when any file hit a fatal condition (spec §7): the batch still completes
// and every file's partial FileReport is still present in Results.
func (g *Generator) Run(ctx context.Context, req Request) (report.Results, error) {
	start := time.Now()
	pool := workerpool.Initialize("generator")
	pool.Start()

	type outcome struct {
		file report.FileReport
		err  error
	}
	outCh := make(chan outcome)
	wg := &sync.WaitGroup{}
	for _, path := range req.Files {
		wg.Add(1)
		p := path
		pool.AppendExecutor(execFunc(func(_ *workerpool.Worker) {
			defer wg.Done()
			fr, err := g.runFile(ctx, req, p)
			outCh <- outcome{file: fr, err: err}
		}))
	}
	go func() {
		wg.Wait()
		close(outCh)
	}()

	var files []report.FileReport
	var firstErr error
	for o := range outCh {
		files = append(files, o.file)
		if o.err != nil {
			log.Errorf("%s: %s\n", o.file.Path, o.err)
			if firstErr == nil {
				firstErr = o.err
			}
		}
	}
	pool.Stop()

	results := report.Results{Files: files, Elapsed: time.Since(start)}
	if firstErr != nil {
		return results, firstErr
	}
	for _, f := range results.Files {
		if len(f.Mutants) == 0 {
			return results, execution.NewExitErr(execution.NoMutantsProduced)
		}
	}

	return results, nil
}

// runFile runs the full per-file algorithm (spec §4.8 steps 1-5).
func (g *Generator) runFile(ctx context.Context, req Request, path string) (report.FileReport, error) {
	rec, err := g.recognizer.Recognize(path)
	if err != nil {
		return report.FileReport{Path: path}, execution.NewExitErrf(execution.UnrecognizedInputFile, err.Error())
	}
	l := rec.Language
	if req.Language != "" && l.Tag() != req.Language {
		return report.FileReport{Path: path, Language: l.Tag()},
			execution.NewExitErrf(execution.UnsupportedLanguage, fmt.Sprintf("%s: expected %q, recognized %q", path, req.Language, l.Tag()))
	}
	settings := req.settingsFor(l)

	if req.SaveConfigFiles {
		g.saveConfigFile(req, l, settings, path)
	}

	ast, err := g.loadAST(ctx, rec, settings)
	if err != nil {
		return report.FileReport{Path: path, Language: l.Tag()}, err
	}

	if req.PrintOriginal {
		g.writeOriginal(l, ast, path)
	}

	algorithms := req.Algorithms
	if len(algorithms) == 0 {
		algorithms = mutation.Tags
	}

	byAlgorithm, err := l.CountMutableNodes(ast, algorithms, req.permissions())
	if err != nil {
		return report.FileReport{Path: path, Language: l.Tag()}, err
	}

	sites := flattenSites(byAlgorithm)
	fr := report.FileReport{Path: path, Language: l.Tag(), Sites: len(sites)}
	if len(sites) == 0 {
		log.Warnf("%s: no mutable nodes found for the requested algorithms\n", path)

		return fr, nil
	}

	requested := req.NumMutants
	if requested <= 0 {
		requested = 1
	}
	target := requested
	if target > len(sites) {
		target = len(sites)
	}
	if target < requested {
		report.Reduced(path, requested, target)
		fr.Reduced = &report.Reduction{Requested: requested, Available: target}
	}

	stem := workdir.Stem(path)
	ext := l.SourceExtension()
	src := rng.New(req.Seed)
	remaining := make([]int, len(sites))
	for i := range sites {
		remaining[i] = i
	}

	validateBudget := target * 10
	retriesUsed := 0
	for len(fr.Mutants) < target && len(remaining) > 0 {
		var idx int
		idx, remaining = src.Pick(remaining)
		site := sites[idx]

		record, ok, derr := g.draw(ctx, l, ast, site, src, settings, req, path, stem, ext)
		if derr != nil {
			log.Warnf("%s: %s\n", path, derr)

			continue
		}
		if !ok {
			fr.Discarded++
			retriesUsed++
			if validateBudget > 0 && retriesUsed >= validateBudget {
				return fr, execution.NewExitErr(execution.ValidationExhausted)
			}

			continue
		}

		fr.Mutants = append(fr.Mutants, record)
		report.Mutant(site.Algorithm, record.OutputPath)
	}

	return fr, nil
}

func (g *Generator) loadAST(ctx context.Context, rec recognizer.Recognition, settings language.CompilerSettings) (visitor.NodeRef, error) {
	l := rec.Language
	if rec.Kind == recognizer.AST {
		//nolint:gosec // path is a user-supplied CLI argument
		raw, err := os.ReadFile(rec.Path)
		if err != nil {
			return visitor.NodeRef{}, execution.NewExitErrf(execution.IoErr, err.Error())
		}
		n, err := l.LoadAST(raw)
		if err != nil {
			return visitor.NodeRef{}, execution.NewExitErrf(execution.MalformedAst, err.Error())
		}

		return n, nil
	}

	n, err := l.SourceToAST(ctx, rec.Path, settings)
	if err != nil {
		return visitor.NodeRef{}, execution.NewExitErrf(execution.CompilerErr, err.Error())
	}

	return n, nil
}

func flattenSites(byAlgorithm map[mutation.Tag][]astx.Path) []mutation.Site {
	var sites []mutation.Site
	for _, tag := range mutation.Tags {
		for _, p := range byAlgorithm[tag] {
			sites = append(sites, mutation.Site{Path: p, Algorithm: tag})
		}
	}

	return sites
}

// draw performs one mutate -> comment -> pretty-print -> (optional
// validate) -> write cycle. ok is false (with a nil error) when
// validate-mutants rejected the mutant, signaling the caller to retry with
// a fresh site rather than treat the draw as fatal.
func (g *Generator) draw(
	ctx context.Context,
	l language.MutableLanguage,
	ast visitor.NodeRef,
	site mutation.Site,
	r *rng.Source,
	settings language.CompilerSettings,
	req Request,
	path, stem, ext string,
) (report.MutantRecord, bool, error) {
	mutated, err := l.Mutate(ast, site, r)
	if err != nil {
		return report.MutantRecord{}, false, fmt.Errorf("algorithm %s: %w", site.Algorithm, err)
	}

	tree := mutated.Tree
	commented := true
	comment := mutation.Description(fmt.Sprintf("%s Mutator: %s", site.Algorithm, mutated.Description))
	if commentedTree, cerr := l.InsertComment(tree, mutated.Path, comment); cerr != nil {
		commented = false
		report.NoLegalCommentSite(path, site.Algorithm)
	} else {
		tree = commentedTree
	}

	root := visitor.NodeRef{Tree: tree, Path: ""}
	source, err := l.PrettyPrint(root)
	if err != nil {
		return report.MutantRecord{}, false, fmt.Errorf("pretty-print: %w", err)
	}

	if req.ValidateMutants {
		ok, verr := l.Validate(ctx, source, settings)
		if verr != nil {
			return report.MutantRecord{}, false, fmt.Errorf("validate: %w", verr)
		}
		if !ok {
			report.Discarded(path, site.Algorithm)

			return report.MutantRecord{}, false, nil
		}
	}

	outputPath := "-"
	if req.Stdout {
		fmt.Fprintln(os.Stdout, source) //nolint:forbidigo // --stdout is the documented output sink
	} else {
		outputPath = g.dealer.Next(stem, site.Algorithm.String(), ext)
		if werr := os.WriteFile(outputPath, []byte(source), 0o644); werr != nil { //nolint:gosec
			return report.MutantRecord{}, false, fmt.Errorf("write mutant: %w", werr)
		}
	}

	return report.MutantRecord{
		Algorithm:   site.Algorithm,
		OutputPath:  outputPath,
		Description: mutated.Description,
		Commented:   commented,
	}, true, nil
}

// saveConfigFile writes the effective per-file invocation as a sibling
// .mgnx document (spec §6.5 --save-config-files). A failure here is a
// warning, not a fatal error, matching writeOriginal's severity.
func (g *Generator) saveConfigFile(req Request, l language.MutableLanguage, settings language.CompilerSettings, path string) {
	if g.dealer == nil {
		log.Warnf("%s: --save-config-files has no effect with --stdout\n", path)

		return
	}
	stem := workdir.Stem(path)
	cfgPath := g.dealer.ConfigPath(stem)
	cfg := effectiveConfig(req, l, settings, path)
	if err := configfile.Save(cfgPath, cfg); err != nil {
		log.Warnf("%s: could not save config file: %s\n", path, err)
	}
}

// effectiveConfig builds the configfile.Config describing the Request as
// actually applied to path, for round-tripping through configfile.Load.
func effectiveConfig(req Request, l language.MutableLanguage, settings language.CompilerSettings, path string) *configfile.Config {
	algorithms := req.Algorithms
	if len(algorithms) == 0 {
		algorithms = mutation.Tags
	}
	mutations := make([]string, len(algorithms))
	for i, tag := range algorithms {
		mutations[i] = tag.String()
	}

	numMutants := req.NumMutants
	seed := int(req.Seed)
	validate := req.ValidateMutants

	return &configfile.Config{
		Filenames:       []string{path},
		Functions:       req.Functions,
		Language:        l.Tag(),
		Mutations:       mutations,
		NumMutants:      &numMutants,
		Seed:            &seed,
		ValidateMutants: &validate,
		CompilerDetails: map[string]configfile.CompilerDetails{
			l.Tag(): toCompilerDetails(settings),
		},
	}
}

func toCompilerDetails(s language.CompilerSettings) configfile.CompilerDetails {
	return configfile.CompilerDetails{
		Path:         s.Path,
		BasePath:     s.BasePath,
		IncludePaths: s.IncludePaths,
		AllowPaths:   s.AllowPaths,
		Remappings:   s.Remappings,
		RootPath:     s.RootPath,
	}
}

func (g *Generator) writeOriginal(l language.MutableLanguage, ast visitor.NodeRef, path string) {
	source, err := l.PrettyPrint(ast)
	if err != nil {
		log.Warnf("%s: could not pretty-print original: %s\n", path, err)

		return
	}
	if g.dealer == nil {
		log.Warnf("%s: --print-original has no effect with --stdout\n", path)

		return
	}
	stem := workdir.Stem(path)
	outPath := g.dealer.OriginalPath(stem, l.SourceExtension())
	if werr := os.WriteFile(outPath, []byte(source), 0o644); werr != nil { //nolint:gosec
		log.Warnf("%s: could not write original: %s\n", path, werr)
	}
}
