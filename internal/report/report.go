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

// Package report formats and outputs mutation generation results (spec
// §6.1 default/verbose console output and the -o/--output JSON file). It
// has no notion of a mutant's test-execution status - every mutant here was
// successfully generated, not run - so it tracks per-algorithm sites found,
// mutants emitted and discarded instead.
package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"

	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/log"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/report/internal"
)

var (
	fgGreen    = color.New(color.FgGreen).SprintFunc()
	fgHiGreen  = color.New(color.FgHiGreen).SprintFunc()
	fgHiBlack  = color.New(color.FgHiBlack).SprintFunc()
	fgHiYellow = color.New(color.FgYellow).SprintFunc()
)

// Reduction records that a file's requested mutant count (spec §8 S2) was
// lowered to the number of mutable nodes actually found.
type Reduction struct {
	Requested int
	Available int
}

// MutantRecord is one successfully generated and written mutant.
type MutantRecord struct {
	Algorithm   mutation.Tag
	OutputPath  string
	Line        int
	Column      int
	Description mutation.Description
	Commented   bool
}

// FileReport accumulates what happened while generating mutants for one
// input file.
type FileReport struct {
	Path      string
	Language  string
	Sites     int
	Reduced   *Reduction
	Mutants   []MutantRecord
	Discarded int // mutants rejected by validation, each followed by a fresh draw
}

// Results is the whole-batch outcome handed to Do once every input file has
// been processed.
type Results struct {
	Files   []FileReport
	Elapsed time.Duration
}

// Mutant logs one emitted mutant (spec §6.1 verbose per-mutant line).
func Mutant(algorithm mutation.Tag, outputPath string) {
	log.Infof("%s %s -> %s\n", fgHiGreen("generated"), algorithm, outputPath)
}

// Reduced logs the spec §8 S2 mutant-count-reduction message for one file.
func Reduced(path string, requested, available int) {
	log.Infof("Reached the limit of mutable nodes for %s: lowering requested mutants by %d to %d\n",
		path, requested-available, available)
}

// NoLegalCommentSite logs the spec §7 non-fatal warning when a mutant was
// produced but no ancestor accepted an explanatory comment.
func NoLegalCommentSite(path string, algorithm mutation.Tag) {
	log.Warnf("%s: no legal comment insertion site for %s mutant, emitting without one\n", path, algorithm)
}

// Discarded logs one validate-mutants retry being abandoned in favor of a
// fresh draw (spec §4.8 step 5).
func Discarded(path string, algorithm mutation.Tag) {
	log.Warnf("%s: discarded a non-compiling %s mutant, retrying\n", path, algorithm)
}

func (r FileReport) emitted() int {
	return len(r.Mutants)
}

func algorithmStatistics(files []FileReport) map[string]int {
	stats := make(map[string]int)
	for _, f := range files {
		for _, m := range f.Mutants {
			stats[m.Algorithm.String()]++
		}
	}

	return stats
}

func (r Results) sitesTotal() int {
	total := 0
	for _, f := range r.Files {
		total += f.Sites
	}

	return total
}

func (r Results) mutantsTotal() int {
	total := 0
	for _, f := range r.Files {
		total += f.emitted()
	}

	return total
}

func (r Results) discardedTotal() int {
	total := 0
	for _, f := range r.Files {
		total += f.Discarded
	}

	return total
}

func (r Results) consoleReport() {
	elapsed := durafmt.Parse(r.Elapsed).LimitFirstN(2)
	mutants := fgHiGreen(r.mutantsTotal())
	sites := fgGreen(r.sitesTotal())
	discarded := r.discardedTotal()
	discardedStr := fgHiBlack(discarded)
	if discarded > 0 {
		discardedStr = fgHiYellow(discarded)
	}
	log.Infoln("")
	log.Infof("Generation completed in %s\n", elapsed.String())
	log.Infof("Mutants: %s, Sites: %s, Discarded: %s\n", mutants, sites, discardedStr)
	for _, f := range r.Files {
		if f.Reduced != nil {
			log.Infof("  %s: %d/%d requested\n", f.Path, f.emitted(), f.Reduced.Requested)

			continue
		}
		log.Infof("  %s: %d mutants\n", f.Path, f.emitted())
	}
}

func (r Results) fileReport() {
	output := configuration.Get[string](configuration.MutateOutputKey)
	if output == "" {
		return
	}

	files := make([]internal.OutputFile, 0, len(r.Files))
	for _, f := range r.Files {
		of := internal.OutputFile{Filename: f.Path, Language: f.Language, Sites: f.Sites}
		if f.Reduced != nil {
			of.Reduced = &internal.Reduction{Requested: f.Reduced.Requested, Available: f.Reduced.Available}
		}
		for _, m := range f.Mutants {
			of.Mutants = append(of.Mutants, internal.Mutation{
				Algorithm:   m.Algorithm.String(),
				OutputPath:  m.OutputPath,
				Line:        m.Line,
				Column:      m.Column,
				Description: string(m.Description),
				Commented:   m.Commented,
			})
		}
		files = append(files, of)
	}

	result := internal.OutputResult{
		Files:               files,
		SitesTotal:          r.sitesTotal(),
		MutantsTotal:        r.mutantsTotal(),
		Discarded:           r.discardedTotal(),
		ElapsedTime:         r.Elapsed.Seconds(),
		AlgorithmStatistics: algorithmStatistics(r.Files),
	}

	jsonResult, _ := json.Marshal(result)
	f, err := os.Create(output)
	if err != nil {
		log.Errorf("impossible to write file: %s\n", err)

		return
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if _, err := f.Write(jsonResult); err != nil {
		log.Errorf("impossible to write file: %s\n", err)
	}
}

// Do prints the final console summary and, when configuration.MutateOutputKey
// is set, writes the machine-readable JSON report. This function uses the
// log package to write to the chosen io.Writer, so log.Init must be called
// first.
func Do(results Results) {
	if len(results.Files) == 0 {
		log.Infoln("\nNo results to report.")

		return
	}
	results.consoleReport()
	results.fileReport()
}
