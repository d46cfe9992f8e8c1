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

package internal

// OutputResult is the data structure for the --output JSON file format
// (spec §6.1 -o/--output).
type OutputResult struct {
	Files               []OutputFile   `json:"files"`
	SitesTotal          int            `json:"sites_total"`
	MutantsTotal        int            `json:"mutants_total"`
	Discarded           int            `json:"discarded"`
	ElapsedTime         float64        `json:"elapsed_time"`
	AlgorithmStatistics map[string]int `json:"algorithm_statistics"`
}

// OutputFile represents one input file's emitted mutants in OutputResult.
type OutputFile struct {
	Filename string     `json:"file_name"`
	Language string     `json:"language"`
	Sites    int        `json:"sites"`
	Reduced  *Reduction `json:"reduced,omitempty"`
	Mutants  []Mutation `json:"mutants"`
}

// Reduction records that a file's requested mutant count (spec §8 S2) was
// lowered to the number of mutable nodes actually found.
type Reduction struct {
	Requested int `json:"requested"`
	Available int `json:"available"`
}

// Mutation represents a single emitted mutant in OutputResult.
type Mutation struct {
	Algorithm   string `json:"algorithm"`
	OutputPath  string `json:"output_path"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Description string `json:"description"`
	Commented   bool   `json:"commented"`
}
