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

// Package jsoncomment implements the comment-insertion algorithm for
// JSON-encoded ASTs (spec §4.6): since neither Solidity's nor Vyper's
// compact AST encoding natively carries a "comment" node kind everywhere, a
// comment describing the applied mutation has to be spliced in at the
// nearest ancestor that is legally allowed to hold one.
package jsoncomment

import (
	"fmt"

	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// Delegate is the per-language plug-in JSONCommentInserter needs: it can
// locate statement-list-legal insertion parents and insert a comment node
// for its own AST encoding (spec's JsonLanguageDelegate).
type Delegate interface {
	astx.NodeFinderFactory[visitor.NodeRef]
	astx.CommenterFactory[visitor.NodeRef]
}

// Inserter runs the five-step algorithm from spec §4.6.
type Inserter struct {
	Traits   visitor.Traits
	Delegate Delegate
}

// NewInserter binds an Inserter to one language's traits and delegate.
func NewInserter(traits visitor.Traits, delegate Delegate) *Inserter {
	return &Inserter{Traits: traits, Delegate: delegate}
}

// Insert splices a comment describing the mutation into mutatedRoot,
// immediately preceding the node identified by targetPath (the caller
// passes the mutation site's id path, as recorded by the traversal that
// counted the site on the pristine AST). On success it returns the
// rewritten root. If no legal ancestor exists, it returns
// astx.ErrNoLegalCommentSite and the original mutatedRoot unchanged; the
// mutant itself is still valid and must still be emitted by the caller.
func (ins *Inserter) Insert(mutatedRoot visitor.NodeRef, targetPath astx.Path, description string) (visitor.NodeRef, error) {
	chain, err := ins.resolveChain(mutatedRoot, targetPath)
	if err != nil {
		return mutatedRoot, fmt.Errorf("jsoncomment: %w", err)
	}

	// Walk from the node outward to the root, looking for the nearest
	// ancestor/child pair that is a legal statement-list insertion site.
	for i := len(chain) - 1; i > 0; i-- {
		parent := chain[i-1]
		child := chain[i]

		finder, ferr := ins.Delegate.NodeFinderFor(parent)
		if ferr != nil {
			continue
		}
		if !finder.IsStatementListMember(parent, child) {
			continue
		}

		commenter, cerr := ins.Delegate.CommenterFor(parent)
		if cerr != nil {
			continue
		}

		newRoot, ierr := commenter.InsertBefore(parent, child, description)
		if ierr != nil {
			continue
		}

		return visitor.NodeRef{Tree: newRoot.Tree, Path: mutatedRoot.Path}, nil
	}

	return mutatedRoot, astx.ErrNoLegalCommentSite
}

// resolveChain walks the tree from root, following targetPath's ids via
// Traits.Children, and returns the ancestor chain [root, ..., target].
func (ins *Inserter) resolveChain(root visitor.NodeRef, targetPath astx.Path) ([]visitor.NodeRef, error) {
	chain := []visitor.NodeRef{root}
	cur := root
	// targetPath[0] is the root's own id; start matching from index 1.
	for _, wantID := range targetPath[1:] {
		found := false
		for _, child := range ins.Traits.Children(cur) {
			id, err := ins.Traits.ID(child)
			if err != nil {
				continue
			}
			if id == wantID {
				chain = append(chain, child)
				cur = child
				found = true

				break
			}
		}
		if !found {
			return nil, fmt.Errorf("could not resolve path to node %q in mutated tree", wantID)
		}
	}

	return chain, nil
}
