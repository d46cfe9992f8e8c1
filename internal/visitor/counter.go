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

import (
	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/mutation"
)

// MutableNodesCounter visits every node of a traversal and, for each
// registered Mutator, records a mutation.Site whenever CanMutate reports
// true (spec §4.4). The resulting Sites are grouped by Mutator.Algorithm()
// implicitly via the Algorithm field on each Site.
type MutableNodesCounter struct {
	Mutators []mutation.Mutator[NodeRef]
	Sites    []mutation.Site
}

// NewMutableNodesCounter builds a counter for the given mutator set. The
// same set must be used to build a MutationMaker so that the sites
// MutationMaker can draw from are identical to the ones counted here
// (spec §3 "site-set consistency" invariant).
func NewMutableNodesCounter(mutators []mutation.Mutator[NodeRef]) *MutableNodesCounter {
	return &MutableNodesCounter{Mutators: mutators}
}

// Visit is a VisitFunc recording one Site per (node, applicable mutator).
func (c *MutableNodesCounter) Visit(n NodeRef, path astx.Path) bool {
	for _, m := range c.Mutators {
		if m.CanMutate(n) {
			p := append(astx.Path{}, path...)
			c.Sites = append(c.Sites, mutation.Site{Path: p, Algorithm: m.Algorithm()})
		}
	}

	return true
}

// ByAlgorithm groups the recorded sites by their Tag.
func (c *MutableNodesCounter) ByAlgorithm() map[mutation.Tag][]astx.Path {
	out := make(map[mutation.Tag][]astx.Path)
	for _, s := range c.Sites {
		out[s.Algorithm] = append(out[s.Algorithm], s.Path)
	}

	return out
}
