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

// Package astx holds the language-neutral AST capability traits (spec §4.3)
// that the rest of the engine depends on: Id, Namer and Permit. Every
// language binding under internal/language implements these against its own
// concrete tree without the engine ever importing a language package.
package astx

import "errors"

// NodeID is a stable, comparable identifier for a node within one AST.
// It is unique within that AST but not across re-parses of the same source.
type NodeID string

// Path is an ordered root-to-node sequence of NodeID, as described in
// spec §3: Path = [root_id, ..., parent_id, target_id].
type Path []NodeID

// Last returns the terminal (target) id of the path, or "" if empty.
func (p Path) Last() NodeID {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Parent returns the path to the immediate parent of the path's target, and
// true, or false if the path has no parent (root or empty).
func (p Path) Parent() (Path, bool) {
	if len(p) < 2 {
		return nil, false
	}

	return p[:len(p)-1], true
}

// ErrMissingNodeID is returned by an Id implementation when the underlying
// AST encoding carries no id for a node.
var ErrMissingNodeID = errors.New("missing node id")

// Id resolves a stable NodeID for a node of the language-specific tree T.
type Id[T any] interface {
	ID(node T) (NodeID, error)
}

// Namer resolves the textual node-kind symbol for a node, e.g.
// "BinaryOperation" or "FunctionCall".
type Namer[T any] interface {
	Name(node T) string
}

// Permissions records per-traversal visiting rules (spec §3): the set of
// function names mutation is restricted to (empty means unrestricted), and
// the set of node kinds to always skip.
type Permissions struct {
	// OnlyFunctions restricts descent to these function names. Empty means
	// every function is eligible.
	OnlyFunctions map[string]struct{}
	// SkipKinds lists node-kind symbols (as returned by Namer.Name) whose
	// subtrees are never visited.
	SkipKinds map[string]struct{}
}

// NewPermissions builds a Permissions from flag-style string slices.
func NewPermissions(onlyFunctions, skipKinds []string) Permissions {
	p := Permissions{}
	if len(onlyFunctions) > 0 {
		p.OnlyFunctions = make(map[string]struct{}, len(onlyFunctions))
		for _, f := range onlyFunctions {
			p.OnlyFunctions[f] = struct{}{}
		}
	}
	if len(skipKinds) > 0 {
		p.SkipKinds = make(map[string]struct{}, len(skipKinds))
		for _, k := range skipKinds {
			p.SkipKinds[k] = struct{}{}
		}
	}

	return p
}

// SkipsKind reports whether the given node-kind symbol is excluded.
func (p Permissions) SkipsKind(kind string) bool {
	_, ok := p.SkipKinds[kind]

	return ok
}

// RestrictsFunctions reports whether OnlyFunctions narrows traversal.
func (p Permissions) RestrictsFunctions() bool {
	return len(p.OnlyFunctions) > 0
}

// AllowsFunction reports whether name is eligible under OnlyFunctions.
func (p Permissions) AllowsFunction(name string) bool {
	if !p.RestrictsFunctions() {
		return true
	}
	_, ok := p.OnlyFunctions[name]

	return ok
}

// Permit decides, for a given node, whether traversal may descend into its
// subtree. It is the sole gate function mutators never need to implement
// themselves (spec "Visitor + Permit decoupling").
type Permit[T any] interface {
	MayVisit(node T, perms Permissions) bool
}
