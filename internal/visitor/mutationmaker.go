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
	"errors"

	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/rng"
)

// ErrSiteNotFound is returned when a chosen mutation.Site's path no longer
// resolves to a node during traversal, which would indicate a mismatch
// between the counting pass and the mutating pass.
var ErrSiteNotFound = errors.New("visitor: mutation site not found during traversal")

// MutationMaker performs exactly one mutation per traversal (spec §3, §4.4):
// given a chosen Site and a Mutator for its Algorithm, it walks until the
// site's path is reached, applies Mutate, records the result, and signals
// the traverser to stop.
type MutationMaker struct {
	Site   mutation.Site
	Mutant mutation.Mutator[NodeRef]
	Rng    *rng.Source

	fired       bool
	MutatedTree NodeRef
	Description mutation.Description
	Err         error
}

// NewMutationMaker builds a MutationMaker for one chosen site.
func NewMutationMaker(site mutation.Site, mutant mutation.Mutator[NodeRef], r *rng.Source) *MutationMaker {
	return &MutationMaker{Site: site, Mutant: mutant, Rng: r}
}

// Visit is a VisitFunc. It compares the current path to the target site's
// path by terminal node id (ids are stable within one AST per spec §3) and
// fires the mutation on match.
func (m *MutationMaker) Visit(n NodeRef, path astx.Path) bool {
	if m.fired {
		return false
	}
	if path.Last() == "" || path.Last() != m.Site.Path.Last() {
		return true
	}

	mutated, desc, err := m.Mutant.Mutate(n, m.Rng)
	m.fired = true
	if err != nil {
		m.Err = err

		return false
	}
	m.MutatedTree = mutated
	m.Description = desc

	return false
}

// Fired reports whether the single permitted mutation has happened.
func (m *MutationMaker) Fired() bool {
	return m.fired
}
