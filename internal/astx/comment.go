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

package astx

import "errors"

// ErrNoLegalCommentSite is the non-fatal condition (spec §7) raised when no
// ancestor between root and the mutated node is a legal comment-insertion
// parent. The mutant is still produced; callers log a warning and omit the
// comment.
var ErrNoLegalCommentSite = errors.New("no legal comment insertion site")

// NodeFinder reports whether child is a direct, comment-legal element of
// parent's statement-list-like container (spec §4.6 step 3).
type NodeFinder[T any] interface {
	IsStatementListMember(parent, child T) bool
}

// NodeFinderFactory resolves the NodeFinder appropriate for a parent node's
// kind, since different node kinds hold their statement lists under
// different fields (e.g. a Solidity Block's "statements" vs a
// ContractDefinition's "nodes").
type NodeFinderFactory[T any] interface {
	NodeFinderFor(parent T) (NodeFinder[T], error)
}

// Commenter inserts a comment fragment immediately preceding target within
// parent's container, returning the rewritten tree value (spec §4.6 step
//4). T is typically a tree-snapshot type, since JSON trees are immutable
// and inserting returns a new snapshot.
type Commenter[T any] interface {
	InsertBefore(parent, target T, text string) (T, error)
}

// CommenterFactory resolves the Commenter suitable for a parent node kind.
type CommenterFactory[T any] interface {
	CommenterFor(parent T) (Commenter[T], error)
}
