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

// Package visitor implements the generic AST traversal and visitor
// framework (spec §4.4) over the single concrete tree representation this
// module uses, internal/astjson.Tree. Every supported language is JSON-AST
// based (spec §4.6), so rather than carrying a Go generic type parameter T
// through the whole engine for a tree shape that never varies, the
// traversal is parameterized over a NodeRef (a tree + gjson path) and a
// per-language Traits implementation supplies Id/Namer/Permit/Children.
package visitor

import (
	"github.com/go-gremlins/solmutate/internal/astjson"
	"github.com/go-gremlins/solmutate/internal/astx"
)

// NodeRef addresses one node within one astjson.Tree snapshot. It is the
// concrete T this module's visitors operate over.
type NodeRef struct {
	Tree *astjson.Tree
	Path string
}

// Result returns the gjson view of the referenced node.
func (n NodeRef) Result() astjson.Result {
	if n.Path == "" {
		return n.Tree.Root()
	}

	return n.Tree.At(n.Path)
}

// Traits is the set of per-language capability traits a traversal needs.
// A MutableLanguage binding supplies exactly one Traits implementation.
type Traits interface {
	astx.Id[NodeRef]
	astx.Namer[NodeRef]
	astx.Permit[NodeRef]
	// Children returns the direct child NodeRefs in deterministic,
	// language-defined order.
	Children(n NodeRef) []NodeRef
}
