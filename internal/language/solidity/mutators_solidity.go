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

package solidity

import (
	"fmt"

	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// elimDelegateCallMutator rewrites `x.delegatecall(...)` into `x.call(...)`
// (spec §4.5, Solidity-only). The site is the MemberAccess naming the
// delegatecall, not the enclosing FunctionCall, since that is the node that
// actually carries the member name being rewritten.
type elimDelegateCallMutator struct{}

func newElimDelegateCallMutator() mutation.Mutator[visitor.NodeRef] { return elimDelegateCallMutator{} }

func (elimDelegateCallMutator) Algorithm() mutation.Tag { return mutation.ElimDelegateCall }

func (elimDelegateCallMutator) CanMutate(n visitor.NodeRef) bool {
	return n.Result().Kind(kindField) == "MemberAccess" && n.Result().Get("memberName").String() == "delegatecall"
}

func (elimDelegateCallMutator) Mutate(n visitor.NodeRef, _ *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	path := n.Path
	if path != "" {
		path += ".memberName"
	} else {
		path = "memberName"
	}
	tree, err := n.Tree.Set(path, "call")
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("replaced delegatecall with call"), nil
}

// requireMutator negates the condition argument of a require() call.
type requireMutator struct{}

func newRequireMutator() mutation.Mutator[visitor.NodeRef] { return requireMutator{} }

func (requireMutator) Algorithm() mutation.Tag { return mutation.Require }

func (requireMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(kindField) != "FunctionCall" {
		return false
	}
	callee := n.Result().Get("expression")
	if callee.Get(kindField).String() != "Identifier" || callee.Get("name").String() != "require" {
		return false
	}

	return len(n.Result().Get("arguments").Array()) >= 1
}

func (requireMutator) Mutate(n visitor.NodeRef, _ *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	argPath := n.Path
	if argPath != "" {
		argPath += "."
	}
	argPath += "arguments.0"

	raw := n.Tree.At(argPath).Raw
	tree, err := n.Tree.SetRaw(argPath, negateExpr(raw))
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("negated argument"), nil
}

// uncheckedBlockMutator wraps an expression statement in `unchecked { }`.
type uncheckedBlockMutator struct{}

func newUncheckedBlockMutator() mutation.Mutator[visitor.NodeRef] { return uncheckedBlockMutator{} }

func (uncheckedBlockMutator) Algorithm() mutation.Tag { return mutation.UncheckedBlock }

func (uncheckedBlockMutator) CanMutate(n visitor.NodeRef) bool {
	return n.Result().Kind(kindField) == "ExpressionStatement"
}

func (uncheckedBlockMutator) Mutate(n visitor.NodeRef, _ *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	raw := n.Result().Raw
	wrapped := fmt.Sprintf(`{"nodeType":"UncheckedBlock","statements":[%s]}`, raw)
	tree, err := n.Tree.SetRaw(n.Path, wrapped)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("wrapped statement in unchecked block"), nil
}
