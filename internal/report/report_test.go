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

package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/log"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/report"
)

func TestDoConsole(t *testing.T) {
	var out bytes.Buffer
	log.Init(&out, &out)
	defer log.Reset()

	results := report.Results{
		Elapsed: 2 * time.Second,
		Files: []report.FileReport{
			{
				Path:     "Token.sol",
				Language: "solidity",
				Sites:    3,
				Mutants: []report.MutantRecord{
					{Algorithm: mutation.ArithmeticBinaryOp, OutputPath: "out/Token_ArithmeticBinaryOp_0.sol", Line: 1, Column: 1, Commented: true},
				},
				Discarded: 1,
			},
		},
	}

	report.Do(results)

	got := out.String()
	if !strings.Contains(got, "Mutants: 1") {
		t.Errorf("want mutants total in output, got %q", got)
	}
	if !strings.Contains(got, "Token.sol") {
		t.Errorf("want file name in output, got %q", got)
	}
}

func TestDoNoResults(t *testing.T) {
	var out bytes.Buffer
	log.Init(&out, &out)
	defer log.Reset()

	report.Do(report.Results{})

	got := out.String()
	if !strings.Contains(got, "No results to report") {
		t.Errorf("want no-results message, got %q", got)
	}
}

func TestDoWritesOutputFile(t *testing.T) {
	var out bytes.Buffer
	log.Init(&out, &out)
	defer log.Reset()

	dir := t.TempDir()
	outPath := filepath.Join(dir, "report.json")
	configuration.Set(configuration.MutateOutputKey, outPath)
	defer configuration.Reset()

	results := report.Results{
		Elapsed: time.Second,
		Files: []report.FileReport{
			{
				Path:     "Token.sol",
				Language: "solidity",
				Sites:    10,
				Reduced:  &report.Reduction{Requested: 10, Available: 1},
				Mutants: []report.MutantRecord{
					{Algorithm: mutation.ArithmeticBinaryOp, OutputPath: "out/Token_ArithmeticBinaryOp_0.sol"},
				},
			},
		},
	}

	report.Do(results)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decoding output file: %v", err)
	}
	if decoded["mutants_total"].(float64) != 1 {
		t.Errorf("want mutants_total 1, got %v", decoded["mutants_total"])
	}
	if decoded["sites_total"].(float64) != 10 {
		t.Errorf("want sites_total 10, got %v", decoded["sites_total"])
	}
}

func TestMutantAndReducedLogLines(t *testing.T) {
	var out bytes.Buffer
	log.Init(&out, &out)
	defer log.Reset()

	report.Mutant(mutation.Require, "out/Token_Require_0.sol")
	report.Reduced("Token.sol", 10, 1)
	report.NoLegalCommentSite("Token.sol", mutation.Require)
	report.Discarded("Token.sol", mutation.Require)

	got := out.String()
	if !strings.Contains(got, "out/Token_Require_0.sol") {
		t.Errorf("want mutant output path logged, got %q", got)
	}
	if !strings.Contains(got, "lowering requested mutants by 9 to 1") {
		t.Errorf("want spec S2 reduction wording, got %q", got)
	}
	if !strings.Contains(got, "no legal comment insertion site") {
		t.Errorf("want no-legal-comment-site warning, got %q", got)
	}
	if !strings.Contains(got, "discarded a non-compiling") {
		t.Errorf("want discarded warning, got %q", got)
	}
}
