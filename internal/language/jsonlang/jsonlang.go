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

// Package jsonlang is the shared machinery behind every JSON-AST language
// binding (spec §4.6, §4.7). Solidity and Vyper differ only in their node
// vocabulary, compiler invocation and field names, which a Spec captures;
// everything else - traversal, comment insertion, pretty-print driving,
// compile-check dispatch - is identical and lives here once.
package jsonlang

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gremlins/solmutate/internal/astjson"
	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/jsoncomment"
	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/nodeprinter"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// Spec is the per-language configuration jsonlang needs to stand up a full
// MutableLanguage binding.
type Spec struct {
	// Tag is the CLI/config language tag, e.g. "solidity".
	Tag string
	// NodeKindField is the JSON field naming a node's kind, e.g.
	// "nodeType" (Solidity) or "ast_type" (Vyper).
	NodeKindField string
	// IDField is the JSON field carrying a node's intrinsic id, if any.
	// Empty means ids are synthesized from path.
	IDField string
	// ChildFields maps a node kind to the ordered list of JSON fields that
	// hold child nodes (arrays or single objects) for that kind.
	ChildFields map[string][]string
	// StatementListKinds maps a node kind to the field name that holds its
	// statement/declaration list, wherever that kind is a legal comment
	// insertion parent (spec §4.6 step 3).
	StatementListKinds map[string]string
	// FunctionKind is the node kind representing a function/method
	// definition, used for --function scoping.
	FunctionKind string
	// FunctionNameField is the field on a FunctionKind node carrying its
	// name.
	FunctionNameField string
	// CommentKind is the synthetic node kind this binding uses to encode an
	// inserted comment (there is no shared standard one).
	CommentKind string
	// SourceExt is the canonical source suffix, e.g. ".sol".
	SourceExt string
	// Mutators builds the full Mutator set this language supports.
	Mutators func() []mutation.Mutator[visitor.NodeRef]
	// RegisterPrinters populates factory with this language's NodePrinters.
	RegisterPrinters func(factory *nodeprinter.Factory)
	// Compile spawns this language's compiler against srcPath with the
	// given settings and returns raw AST JSON on stdout.
	Compile func(ctx context.Context, srcPath string, settings language.CompilerSettings) ([]byte, error)
	// CompileCheck re-invokes the compiler purely for syntax validity.
	CompileCheck func(ctx context.Context, source string, settings language.CompilerSettings) (bool, error)
	// Defaults returns this language's default CompilerSettings.
	Defaults func() language.CompilerSettings
	// NormalizeAST, when set, reshapes raw compiler-produced AST JSON before
	// it is parsed, for languages whose compiler output doesn't already
	// match the flat node shape Mutators assume (e.g. Vyper's nested
	// operator nodes). Solidity leaves this nil: solc's compact AST is
	// already flat. Applied to both SourceToAST's compiler output and
	// LoadAST's raw AST-file input, so hand-authored fixtures see the same
	// normalization a real compiler run would.
	NormalizeAST func(raw []byte) ([]byte, error)
}

// Language is the generic MutableLanguage implementation driven by a Spec.
// It also implements visitor.Traits and the astx NodeFinder/Commenter
// factories, since all three are the same JSON-path-addressed logic for
// every JSON-AST language.
type Language struct {
	Spec     *Spec
	mutators []mutation.Mutator[visitor.NodeRef]
	printers *nodeprinter.Factory
}

// New builds a Language from a fully populated Spec.
func New(spec *Spec) *Language {
	l := &Language{Spec: spec, mutators: spec.Mutators()}
	l.printers = nodeprinter.NewFactory(l)
	spec.RegisterPrinters(l.printers)

	return l
}

// Tag implements language.MutableLanguage.
func (l *Language) Tag() string { return l.Spec.Tag }

// SourceExtension implements language.MutableLanguage.
func (l *Language) SourceExtension() string { return l.Spec.SourceExt }

// IsSourceFile implements language.MutableLanguage.
func (l *Language) IsSourceFile(path string) bool {
	return strings.HasSuffix(path, l.Spec.SourceExt)
}

// IsASTFile implements language.MutableLanguage.
func (l *Language) IsASTFile(path string) bool {
	return strings.HasSuffix(path, ".json")
}

// ---- Traits (astx.Id / astx.Namer / astx.Permit / visitor.Traits.Children) ----

// ID implements astx.Id[visitor.NodeRef].
func (l *Language) ID(n visitor.NodeRef) (astx.NodeID, error) {
	if l.Spec.IDField == "" {
		return astx.NodeID(n.Path), nil
	}

	return n.Result().ID(l.Spec.IDField)
}

// Name implements astx.Namer[visitor.NodeRef].
func (l *Language) Name(n visitor.NodeRef) string {
	return n.Result().Kind(l.Spec.NodeKindField)
}

// MayVisit implements astx.Permit[visitor.NodeRef]. It skips any node kind
// named in perms.SkipKinds outright, and skips a FunctionKind subtree whose
// name is not among perms.OnlyFunctions when function scoping is active
// (spec §8 property 6).
func (l *Language) MayVisit(n visitor.NodeRef, perms astx.Permissions) bool {
	kind := l.Name(n)
	if perms.SkipsKind(kind) {
		return false
	}
	if kind == l.Spec.FunctionKind && perms.RestrictsFunctions() {
		name := n.Result().Get(l.Spec.FunctionNameField).String()

		return perms.AllowsFunction(name)
	}

	return true
}

// Children implements visitor.Traits.
func (l *Language) Children(n visitor.NodeRef) []visitor.NodeRef {
	kind := l.Name(n)
	fields := l.Spec.ChildFields[kind]
	if len(fields) == 0 {
		return nil
	}
	results := n.Result().Children(fields)
	out := make([]visitor.NodeRef, 0, len(results))
	for _, r := range results {
		out = append(out, visitor.NodeRef{Tree: n.Tree, Path: r.Path()})
	}

	return out
}

// ---- NodeFinder / Commenter (astx.NodeFinderFactory / CommenterFactory) ----

type jsonNodeFinder struct{ field string }

func (f jsonNodeFinder) IsStatementListMember(parent, child visitor.NodeRef) bool {
	prefix := joinPath(parent.Path, f.field) + "."
	rest := strings.TrimPrefix(child.Path, prefix)

	return strings.HasPrefix(child.Path, prefix) && !strings.Contains(rest, ".")
}

// NodeFinderFor implements astx.NodeFinderFactory[visitor.NodeRef].
func (l *Language) NodeFinderFor(parent visitor.NodeRef) (astx.NodeFinder[visitor.NodeRef], error) {
	kind := l.Name(parent)
	field, ok := l.Spec.StatementListKinds[kind]
	if !ok {
		return nil, fmt.Errorf("jsonlang: %s is not a statement-list kind", kind)
	}

	return jsonNodeFinder{field: field}, nil
}

type jsonCommenter struct {
	field       string
	commentKind string
	kindField   string
}

func (c jsonCommenter) InsertBefore(parent, target visitor.NodeRef, text string) (visitor.NodeRef, error) {
	prefix := joinPath(parent.Path, c.field) + "."
	idxStr := strings.TrimPrefix(target.Path, prefix)
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return target, fmt.Errorf("jsonlang: target %q is not an indexed array member of %q", target.Path, prefix)
	}

	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(text)
	rawComment := fmt.Sprintf(`{%q:%q,"text":%q}`, c.kindField, c.commentKind, escaped)

	newTree, err := insertArrayElement(target.Tree, prefix[:len(prefix)-1], idx, rawComment)
	if err != nil {
		return target, err
	}

	return visitor.NodeRef{Tree: newTree, Path: parent.Path}, nil
}

// insertArrayElement shifts every element at or after idx one slot later
// within the array at arrPath and writes rawValue into the freed slot.
// sjson has no native "insert" primitive, only indexed Set, so elements
// are pushed from the tail down.
func insertArrayElement(tree *astjson.Tree, arrPath string, idx int, rawValue string) (*astjson.Tree, error) {
	elems := tree.At(arrPath).Array()
	n := len(elems)

	cur := tree
	for i := n; i > idx; i-- {
		next, err := cur.SetRaw(fmt.Sprintf("%s.%d", arrPath, i), elems[i-1].Raw)
		if err != nil {
			return nil, fmt.Errorf("jsonlang: shift array element: %w", err)
		}
		cur = next
	}

	out, err := cur.SetRaw(fmt.Sprintf("%s.%d", arrPath, idx), rawValue)
	if err != nil {
		return nil, fmt.Errorf("jsonlang: insert array element: %w", err)
	}

	return out, nil
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}

	return base + "." + field
}

// CommenterFor implements astx.CommenterFactory[visitor.NodeRef].
func (l *Language) CommenterFor(parent visitor.NodeRef) (astx.Commenter[visitor.NodeRef], error) {
	kind := l.Name(parent)
	field, ok := l.Spec.StatementListKinds[kind]
	if !ok {
		return nil, fmt.Errorf("jsonlang: %s is not a statement-list kind", kind)
	}

	return jsonCommenter{field: field, commentKind: l.Spec.CommentKind, kindField: l.Spec.NodeKindField}, nil
}

// ---- MutableLanguage core operations (spec §4.7) ----

// LoadAST implements language.MutableLanguage.
func (l *Language) LoadAST(raw []byte) (visitor.NodeRef, error) {
	if l.Spec.NormalizeAST != nil {
		normalized, err := l.Spec.NormalizeAST(raw)
		if err != nil {
			return visitor.NodeRef{}, fmt.Errorf("jsonlang: normalize: %w", err)
		}
		raw = normalized
	}

	tree, err := astjson.Parse(raw)
	if err != nil {
		return visitor.NodeRef{}, fmt.Errorf("jsonlang: %w", err)
	}

	return visitor.NodeRef{Tree: tree, Path: ""}, nil
}

// MutatorFor resolves the Mutator for tag, or mutation.ErrAlgorithmNotSupported.
func (l *Language) MutatorFor(tag mutation.Tag) (mutation.Mutator[visitor.NodeRef], error) {
	for _, m := range l.mutators {
		if m.Algorithm() == tag {
			return m, nil
		}
	}

	return nil, &mutation.ErrAlgorithmNotSupported{Tag: tag, Language: l.Spec.Tag}
}

// CountMutableNodes implements language.MutableLanguage.
func (l *Language) CountMutableNodes(ast visitor.NodeRef, algorithms []mutation.Tag, perms astx.Permissions) (map[mutation.Tag][]astx.Path, error) {
	var mutators []mutation.Mutator[visitor.NodeRef]
	for _, tag := range algorithms {
		m, err := l.MutatorFor(tag)
		if err != nil {
			return nil, err
		}
		mutators = append(mutators, m)
	}

	counter := visitor.NewMutableNodesCounter(mutators)
	trav := visitor.NewASTTraverser(l, perms)
	trav.Walk(ast, counter.Visit)

	return counter.ByAlgorithm(), nil
}

// Mutate implements language.MutableLanguage. Tree is immutable, so
// cloning is implicit: every Set/SetRaw call returns a fresh Tree rather
// than touching the receiver's (spec §3 "cloned before each mutation").
func (l *Language) Mutate(ast visitor.NodeRef, site mutation.Site, r *rng.Source) (language.Mutation, error) {
	m, err := l.MutatorFor(site.Algorithm)
	if err != nil {
		return language.Mutation{}, err
	}

	clone := visitor.NodeRef{Tree: ast.Tree.Clone(), Path: ast.Path}
	maker := visitor.NewMutationMaker(site, m, r)
	trav := visitor.NewASTTraverser(l, astx.Permissions{})
	trav.Walk(clone, maker.Visit)

	if !maker.Fired() {
		return language.Mutation{}, visitor.ErrSiteNotFound
	}
	if maker.Err != nil {
		return language.Mutation{}, maker.Err
	}

	return language.Mutation{Tree: maker.MutatedTree.Tree, Path: site.Path, Description: maker.Description}, nil
}

// InsertComment implements language.MutableLanguage.
func (l *Language) InsertComment(tree *astjson.Tree, path astx.Path, description mutation.Description) (*astjson.Tree, error) {
	inserter := jsoncomment.NewInserter(l, l)
	root := visitor.NodeRef{Tree: tree, Path: ""}

	newRoot, err := inserter.Insert(root, path, string(description))

	return newRoot.Tree, err
}

// PrettyPrint implements language.MutableLanguage.
func (l *Language) PrettyPrint(ast visitor.NodeRef) (string, error) {
	v := nodeprinter.NewPrettyPrintVisitor(l.printers)

	return v.Print(ast)
}

// DefaultCompilerSettings implements language.MutableLanguage.
func (l *Language) DefaultCompilerSettings() language.CompilerSettings {
	return l.Spec.Defaults()
}

// SourceToAST implements language.MutableLanguage.
func (l *Language) SourceToAST(ctx context.Context, srcPath string, settings language.CompilerSettings) (visitor.NodeRef, error) {
	raw, err := l.Spec.Compile(ctx, srcPath, settings)
	if err != nil {
		return visitor.NodeRef{}, err
	}

	return l.LoadAST(raw)
}

// Validate implements language.MutableLanguage.
func (l *Language) Validate(ctx context.Context, mutatedSource string, settings language.CompilerSettings) (bool, error) {
	return l.Spec.CompileCheck(ctx, mutatedSource, settings)
}
