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

// Package language defines the MutableLanguage façade (spec §4.7) and the
// LanguageInterface registry (spec §2 item 8) that maps a language tag to
// one. Concrete bindings live in internal/language/solidity and
// internal/language/vyper.
package language

import (
	"context"
	"fmt"

	"github.com/go-gremlins/solmutate/internal/astjson"
	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// CompilerSettings is the language-specific subset of compiler flags a
// binding needs (spec §6.4); the CLI layer populates this from flags or a
// .mgnx file.
type CompilerSettings struct {
	Path         string
	BasePath     string   // Solidity
	IncludePaths []string // Solidity
	AllowPaths   []string // Solidity
	Remappings   []string // Solidity, "context:prefix=path"
	RootPath     string   // Vyper
}

// Mutation is the result of one successful MutableLanguage.Mutate call: the
// rewritten whole-document tree, the path to the mutated node (for comment
// insertion), and the human-readable description to embed in the comment.
type Mutation struct {
	Tree        *astjson.Tree
	Path        astx.Path
	Description mutation.Description
}

// Root returns the Mutation's tree as a root-addressed NodeRef, ready for
// InsertComment, PrettyPrint or Validate.
func (m Mutation) Root() visitor.NodeRef {
	return visitor.NodeRef{Tree: m.Tree, Path: ""}
}

// MutableLanguage is the per-language façade every operation in §4.7 is
// defined against. Implementations own exactly one language's node-kind
// vocabulary, compiler invocation, and pretty-printing.
type MutableLanguage interface {
	// Tag is this language's CLI/config tag, e.g. "solidity", "vyper".
	Tag() string

	// LoadAST parses raw, already-produced AST JSON.
	LoadAST(raw []byte) (visitor.NodeRef, error)
	// SourceToAST spawns the language's compiler against srcPath using the
	// given settings and parses its JSON output.
	SourceToAST(ctx context.Context, srcPath string, settings CompilerSettings) (visitor.NodeRef, error)

	// CountMutableNodes returns, for each requested algorithm, the list of
	// mutable paths found by traversing ast under perms (spec §4.8 step 2).
	CountMutableNodes(ast visitor.NodeRef, algorithms []mutation.Tag, perms astx.Permissions) (map[mutation.Tag][]astx.Path, error)
	// Mutate performs exactly one mutation at the chosen site on a clone of
	// ast; ast itself is left unmodified (spec §4.7).
	Mutate(ast visitor.NodeRef, site mutation.Site, r *rng.Source) (Mutation, error)
	// InsertComment splices the mutation description into tree immediately
	// before the node at path, or reports astx.ErrNoLegalCommentSite.
	InsertComment(tree *astjson.Tree, path astx.Path, description mutation.Description) (*astjson.Tree, error)
	// PrettyPrint serializes ast to formatted source text.
	PrettyPrint(ast visitor.NodeRef) (string, error)

	// DefaultCompilerSettings returns this language's out-of-the-box
	// compiler invocation defaults.
	DefaultCompilerSettings() CompilerSettings
	// SourceExtension is this language's canonical source file suffix,
	// e.g. ".sol", ".vy".
	SourceExtension() string
	// IsSourceFile reports whether path looks like this language's source.
	IsSourceFile(path string) bool
	// IsASTFile reports whether path looks like pre-compiled AST JSON for
	// this language.
	IsASTFile(path string) bool

	// Validate re-invokes the compiler on mutatedSource and reports whether
	// it is still syntactically valid (spec §4.7, used by --validate-mutants).
	Validate(ctx context.Context, mutatedSource string, settings CompilerSettings) (bool, error)
}

// Registry maps a language tag (spec §2 item 8, "LanguageInterface") to its
// MutableLanguage binding.
type Registry struct {
	byTag map[string]MutableLanguage
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]MutableLanguage)}
}

// Register binds a MutableLanguage under its own Tag().
func (r *Registry) Register(l MutableLanguage) {
	r.byTag[l.Tag()] = l
}

// ErrUnsupportedLanguage is returned when Lookup finds no binding for tag.
type ErrUnsupportedLanguage struct {
	Tag string
}

func (e *ErrUnsupportedLanguage) Error() string {
	return fmt.Sprintf("unsupported language %q", e.Tag)
}

// Lookup resolves the MutableLanguage for tag.
func (r *Registry) Lookup(tag string) (MutableLanguage, error) {
	l, ok := r.byTag[tag]
	if !ok {
		return nil, &ErrUnsupportedLanguage{Tag: tag}
	}

	return l, nil
}

// RecognizeFile returns the first registered language whose IsSourceFile or
// IsASTFile claims path, used by the CLI recognizer (spec §1's "input-file
// recognizer" collaborator) ahead of language-tag configuration.
func (r *Registry) RecognizeFile(path string) (MutableLanguage, bool) {
	for _, l := range r.byTag {
		if l.IsSourceFile(path) || l.IsASTFile(path) {
			return l, true
		}
	}

	return nil, false
}
