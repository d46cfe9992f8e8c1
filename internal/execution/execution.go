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

// Package execution maps the closed set of fatal error kinds (spec §7) to
// process exit codes.
package execution

// ErrorKind is the type of the error that can generate a specific exit
// status. The set is closed and mirrors spec.md §7.
type ErrorKind int

const (
	// UnrecognizedInputFile is raised when a --file argument is neither a
	// recognizable source file nor an AST file for any registered language.
	UnrecognizedInputFile ErrorKind = iota
	// UnsupportedLanguage is raised when a language tag has no registered
	// MutableLanguage.
	UnsupportedLanguage
	// CompilerNotFound is raised when the configured compiler binary cannot
	// be located or executed.
	CompilerNotFound
	// CompilerErr wraps a non-zero compiler exit with its captured stderr.
	CompilerErr
	// MalformedAst is raised when compiler output cannot be parsed as the
	// expected AST encoding.
	MalformedAst
	// AlgorithmNotSupported is raised when a (language, algorithm) pair has
	// no registered Mutator.
	AlgorithmNotSupported
	// NoMutableNodes names the case where an AST yields zero mutation sites
	// for the requested algorithm set. The generator logs that case as a
	// warning and goes on with the next file; it never returns this kind.
	NoMutableNodes
	// UnsupportedNodeKind is raised when a NodePrinter has no printer for a
	// node kind it must serialize.
	UnsupportedNodeKind
	// MissingNodeID is raised when the Id trait cannot resolve a stable
	// node identifier.
	MissingNodeID
	// ValidationExhausted is raised when a validate-mutants retry budget
	// (10x the target count, i.e. the requested count capped at the number
	// of sites) is spent on mutants that fail validation.
	ValidationExhausted
	// IoErr wraps a filesystem failure reading or writing mutant output.
	IoErr
	// ConfigParseErr is raised when a .mgnx file cannot be read or does not
	// decode, including when it carries an unknown key.
	ConfigParseErr
	// ConfigExtensionRejected is raised when a config path does not carry
	// the .mgnx extension.
	ConfigExtensionRejected
	// NoMutantsProduced is raised at the end of a batch when mutants were
	// requested for a file but none were ultimately emitted.
	NoMutantsProduced
)

// String produces the human readable sentence for the ErrorKind.
func (e ErrorKind) String() string {
	switch e {
	case UnrecognizedInputFile:
		return "unrecognized input file"
	case UnsupportedLanguage:
		return "unsupported language"
	case CompilerNotFound:
		return "compiler not found"
	case CompilerErr:
		return "compiler error"
	case MalformedAst:
		return "malformed ast"
	case AlgorithmNotSupported:
		return "algorithm not supported for this language"
	case NoMutableNodes:
		return "no mutable nodes found"
	case UnsupportedNodeKind:
		return "unsupported node kind"
	case MissingNodeID:
		return "missing node id"
	case ValidationExhausted:
		return "validation retries exhausted"
	case IoErr:
		return "i/o error"
	case ConfigParseErr:
		return "config parse error"
	case ConfigExtensionRejected:
		return "config extension rejected"
	case NoMutantsProduced:
		return "no mutants produced"
	}
	panic("this should not happen")
}

var errorMapping = map[ErrorKind]int{
	UnrecognizedInputFile:   10,
	UnsupportedLanguage:     11,
	CompilerNotFound:        12,
	CompilerErr:             13,
	MalformedAst:            14,
	AlgorithmNotSupported:   15,
	NoMutableNodes:          16,
	UnsupportedNodeKind:     17,
	MissingNodeID:           18,
	ValidationExhausted:     19,
	IoErr:                   20,
	ConfigParseErr:          21,
	ConfigExtensionRejected: 22,
	NoMutantsProduced:       23,
}

// ExitError is a special error that is raised when special conditions
// require solmutate to exit with a specific exit code. If this error is
// returned and/or properly wrapped, it will reach the main function, where
// the exit code will be set as the exit code of the process.
type ExitError struct {
	kind     ErrorKind
	exitCode int
	detail   string
}

// NewExitErr instantiates a new ExitError for the given ErrorKind.
func NewExitErr(k ErrorKind) *ExitError {
	return &ExitError{exitCode: errorMapping[k], kind: k}
}

// NewExitErrf instantiates a new ExitError carrying additional detail, such
// as a compiler's captured stderr.
func NewExitErrf(k ErrorKind, detail string) *ExitError {
	return &ExitError{exitCode: errorMapping[k], kind: k, detail: detail}
}

// Error is the implementation of the error interface.
func (e *ExitError) Error() string {
	if e.detail == "" {
		return e.kind.String()
	}

	return e.kind.String() + ": " + e.detail
}

// ExitCode returns the exit code associated with the specific ErrorKind.
func (e *ExitError) ExitCode() int {
	return e.exitCode
}

// Kind returns the ErrorKind carried by this error.
func (e *ExitError) Kind() ErrorKind {
	return e.kind
}
