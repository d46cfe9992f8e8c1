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

package vyper

import (
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// nonCommutativeBinOps and nonCommutativeCompareOps list the operators for
// which swapping operands changes semantics, split by kind since BinOp and
// Compare are distinct node kinds in vyper's AST (unlike Solidity, where
// both live under BinaryOperation and internal/mutation/common's single-kind
// swapOperatorArgumentsMutator is enough).
var (
	nonCommutativeBinOps     = map[string]struct{}{"-": {}, "/": {}, "%": {}, "**": {}}
	nonCommutativeCompareOps = map[string]struct{}{"<": {}, "<=": {}, ">": {}, ">=": {}}
)

// swapOperatorArgumentsMutator swaps the left/right operands of a
// non-commutative BinOp or Compare node.
type swapOperatorArgumentsMutator struct{}

func newSwapOperatorArgumentsMutator() mutation.Mutator[visitor.NodeRef] {
	return swapOperatorArgumentsMutator{}
}

func (swapOperatorArgumentsMutator) Algorithm() mutation.Tag { return mutation.SwapOperatorArguments }

func (swapOperatorArgumentsMutator) CanMutate(n visitor.NodeRef) bool {
	op := n.Result().Get("op").String()
	switch n.Result().Kind(kindField) {
	case "BinOp":
		_, ok := nonCommutativeBinOps[op]
		return ok
	case "Compare":
		_, ok := nonCommutativeCompareOps[op]
		return ok
	default:
		return false
	}
}

func (swapOperatorArgumentsMutator) Mutate(n visitor.NodeRef, _ *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	leftPath := n.Path + ".left"
	rightPath := n.Path + ".right"
	if n.Path == "" {
		leftPath, rightPath = "left", "right"
	}

	left := n.Tree.At(leftPath).Raw
	right := n.Tree.At(rightPath).Raw

	tree, err := n.Tree.SetRaw(leftPath, right)
	if err != nil {
		return n, "", err
	}
	tree, err = tree.SetRaw(rightPath, left)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("swapped operands"), nil
}
