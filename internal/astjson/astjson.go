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

// Package astjson is the concrete AST representation shared by the Solidity
// and Vyper bindings (spec §4.6: "ASTs whose in-memory form is a tree of
// JSON objects"). A Tree wraps the raw compiler JSON output and exposes
// parent-aware, path-addressed navigation on top of gjson/sjson so that
// internal/visitor and internal/mutation never parse JSON themselves.
package astjson

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/go-gremlins/solmutate/internal/astx"
)

// Tree is a JSON-encoded AST. The zero value is not usable; build one with
// Parse. Tree is immutable from the outside: mutation always goes through
// Clone followed by Set on the clone, matching the "clone before each
// mutation" invariant (spec §3).
type Tree struct {
	raw string
}

// Parse builds a Tree from raw compiler JSON output. It only validates that
// the payload is syntactically valid JSON; structural validation is the
// caller's responsibility (spec's MalformedAst is raised by the language
// binding, not here).
func Parse(raw []byte) (*Tree, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("astjson: invalid json payload")
	}

	return &Tree{raw: string(raw)}, nil
}

// Raw returns the tree's current JSON encoding.
func (t *Tree) Raw() string {
	return t.raw
}

// Bytes returns the tree's current JSON encoding as a byte slice.
func (t *Tree) Bytes() []byte {
	return []byte(t.raw)
}

// Clone returns an independent copy of the tree. Because Tree is backed by
// an immutable string, Clone is O(1) to produce here and the cost is paid
// only when the caller first calls Set.
func (t *Tree) Clone() *Tree {
	return &Tree{raw: t.raw}
}

// Result is a read-only view of one JSON node, addressed by its gjson path
// relative to the tree root.
type Result struct {
	gjson.Result
	path string
}

// Path returns the gjson path this Result was fetched at.
func (r Result) Path() string {
	return r.path
}

// At resolves the node at a dot/bracket gjson path from the tree root.
func (t *Tree) At(path string) Result {
	return Result{Result: gjson.Get(t.raw, path), path: path}
}

// Root returns the tree root as a Result with an empty path.
func (t *Tree) Root() Result {
	return Result{Result: gjson.Parse(t.raw), path: ""}
}

// Set returns a new Tree with the value at path replaced, using sjson's
// in-place path addressed rewrite. The receiver is left untouched.
func (t *Tree) Set(path string, value any) (*Tree, error) {
	out, err := sjson.Set(t.raw, path, value)
	if err != nil {
		return nil, fmt.Errorf("astjson: set %s: %w", path, err)
	}

	return &Tree{raw: out}, nil
}

// SetRaw is like Set but splices a pre-encoded JSON fragment verbatim,
// used by internal/jsoncomment to insert a comment node without
// re-marshalling it through Go types.
func (t *Tree) SetRaw(path, rawValue string) (*Tree, error) {
	out, err := sjson.SetRaw(t.raw, path, rawValue)
	if err != nil {
		return nil, fmt.Errorf("astjson: set raw %s: %w", path, err)
	}

	return &Tree{raw: out}, nil
}

// Delete returns a new Tree with the value at path removed.
func (t *Tree) Delete(path string) (*Tree, error) {
	out, err := sjson.Delete(t.raw, path)
	if err != nil {
		return nil, fmt.Errorf("astjson: delete %s: %w", path, err)
	}

	return &Tree{raw: out}, nil
}

// Kind returns the textual node-kind symbol of a result, read from the
// nodeKindField configured for the owning language (e.g. "nodeType" for
// Solidity, "ast_type" for Vyper).
func (r Result) Kind(nodeKindField string) string {
	return r.Get(nodeKindField).String()
}

// ID resolves the stable NodeID carried at idField, e.g. Solidity's numeric
// "id" field. Returns astx.ErrMissingNodeID when absent.
func (r Result) ID(idField string) (astx.NodeID, error) {
	v := r.Get(idField)
	if !v.Exists() {
		return "", astx.ErrMissingNodeID
	}

	return astx.NodeID(v.Raw), nil
}

// Children walks every array and object member under childrenField names
// and returns each as a Result with its path rooted at the receiver's path.
// A language binding supplies the ordered list of field names that hold
// child nodes for a given node kind (Solidity's layout differs per
// nodeType, e.g. "nodes" at the source-unit level vs "statements" inside a
// Block), so Children takes that list explicitly rather than guessing.
func (r Result) Children(fields []string) []Result {
	var out []Result
	for _, field := range fields {
		v := r.Get(field)
		if !v.Exists() {
			continue
		}
		base := joinPath(r.path, field)
		if v.IsArray() {
			i := 0
			v.ForEach(func(_, item gjson.Result) bool {
				out = append(out, Result{Result: item, path: fmt.Sprintf("%s.%d", base, i)})
				i++

				return true
			})

			continue
		}
		if v.IsObject() {
			out = append(out, Result{Result: v, path: base})
		}
	}

	return out
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}

	return base + "." + field
}
