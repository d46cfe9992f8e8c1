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

// Package recognizer is the input-file recognizer (spec §1, an out-of-scope
// external collaborator with a specified interface only): given a path,
// decide which registered MutableLanguage owns it and whether it is already
// compiled AST JSON or raw source that still needs a compiler pass.
package recognizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gremlins/solmutate/internal/language"
)

// Kind distinguishes a recognized file's payload.
type Kind int

const (
	// Source is a language's plain-text source file.
	Source Kind = iota
	// AST is pre-compiled AST JSON for a language.
	AST
)

// Recognition is the result of recognizing one input path.
type Recognition struct {
	Path     string
	Language language.MutableLanguage
	Kind     Kind
}

// ErrUnrecognizedInputFile is returned when no registered language claims
// path by extension, and content sniffing is inconclusive.
type ErrUnrecognizedInputFile struct {
	Path string
}

func (e *ErrUnrecognizedInputFile) Error() string {
	return fmt.Sprintf("recognizer: unrecognized input file %q", e.Path)
}

// Recognizer resolves input paths against a language.Registry.
type Recognizer struct {
	registry *language.Registry
}

// New builds a Recognizer bound to registry.
func New(registry *language.Registry) *Recognizer {
	return &Recognizer{registry: registry}
}

// Recognize classifies path by extension first; when a `.mgnx` is mistakenly
// passed through (config files are never mutation inputs), it reports
// ErrUnrecognizedInputFile directly rather than deferring to languages. If
// no language claims the extension, it falls back to content sniffing: a
// file whose first non-whitespace byte is '{' is treated as AST JSON and
// re-checked against every registered language's IsASTFile.
func (rec *Recognizer) Recognize(path string) (Recognition, error) {
	if strings.HasSuffix(path, ".mgnx") {
		return Recognition{}, &ErrUnrecognizedInputFile{Path: path}
	}

	if l, ok := rec.registry.RecognizeFile(path); ok {
		kind := Source
		if l.IsASTFile(path) {
			kind = AST
		}

		return Recognition{Path: path, Language: l, Kind: kind}, nil
	}

	if l, ok := rec.sniffASTLanguage(path); ok {
		return Recognition{Path: path, Language: l, Kind: AST}, nil
	}

	return Recognition{}, &ErrUnrecognizedInputFile{Path: path}
}

// nodeKindHints maps a node-kind field, as it appears verbatim near the top
// of a compact-JSON AST document, to the language tag that owns it -
// Solidity's solc output names the field "nodeType", Vyper's names it
// "ast_type". This lets AST JSON saved under a non-".json" name still be
// recognized without a full parse.
var nodeKindHints = map[string]string{
	`"nodeType"`: "solidity",
	`"ast_type"`: "vyper",
}

func (rec *Recognizer) sniffASTLanguage(path string) (language.MutableLanguage, bool) {
	//nolint:gosec // path is a user-supplied CLI argument, not untrusted network input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	head := string(data)
	if len(head) > 4096 {
		head = head[:4096]
	}

	for hint, tag := range nodeKindHints {
		if strings.Contains(head, hint) {
			if l, err := rec.registry.Lookup(tag); err == nil {
				return l, true
			}
		}
	}

	return nil, false
}
