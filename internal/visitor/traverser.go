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

package visitor

import "github.com/go-gremlins/solmutate/internal/astx"

// VisitFunc is called at every node the ASTTraverser descends into. Path is
// the root-to-node id sequence at the point of the call. Returning false
// halts the entire traversal immediately (used by MutationMaker to stop
// after its single mutation fires).
type VisitFunc func(n NodeRef, path astx.Path) bool

// ASTTraverser performs depth-first, pre-order, Permit-gated traversal.
// Traversal order is solely a function of Traits.Children's order, which
// must be deterministic (spec §4.4).
type ASTTraverser struct {
	Traits  Traits
	Perms   astx.Permissions
	onEnter []func(n NodeRef, kind string) bool // optional kind-level filters, e.g. function scoping
}

// NewASTTraverser builds a traverser bound to one language's Traits and one
// set of Permissions.
func NewASTTraverser(traits Traits, perms astx.Permissions) *ASTTraverser {
	return &ASTTraverser{Traits: traits, Perms: perms}
}

// Walk traverses the tree rooted at root, invoking visit at every node not
// excluded by Permit. It stops early if visit returns false.
func (t *ASTTraverser) Walk(root NodeRef, visit VisitFunc) {
	t.walk(root, nil, visit)
}

func (t *ASTTraverser) walk(n NodeRef, path astx.Path, visit VisitFunc) bool {
	id, err := t.Traits.ID(n)
	var nid astx.NodeID
	if err == nil {
		nid = id
	}
	curPath := append(append(astx.Path{}, path...), nid)

	if !t.Traits.MayVisit(n, t.Perms) {
		return true
	}

	if !visit(n, curPath) {
		return false
	}

	for _, child := range t.Traits.Children(n) {
		if !t.walk(child, curPath, visit) {
			return false
		}
	}

	return true
}
