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

// PathVisitor records every node id's root-to-node path reachable from a
// traversal root (spec §4.4). The JSON comment inserter does not use it: it
// resolves the mutation site's id path against the mutated tree itself.
type PathVisitor struct {
	Paths map[astx.NodeID]astx.Path
}

// NewPathVisitor creates an empty PathVisitor.
func NewPathVisitor() *PathVisitor {
	return &PathVisitor{Paths: make(map[astx.NodeID]astx.Path)}
}

// Visit is a VisitFunc recording the current path and always continuing.
func (v *PathVisitor) Visit(_ NodeRef, path astx.Path) bool {
	if id := path.Last(); id != "" {
		v.Paths[id] = append(astx.Path{}, path...)
	}

	return true
}

// PathTo looks up the recorded path for id, if any.
func (v *PathVisitor) PathTo(id astx.NodeID) (astx.Path, bool) {
	p, ok := v.Paths[id]

	return p, ok
}
