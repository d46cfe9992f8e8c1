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

// Package common builds the field-name-parameterized Mutator
// implementations shared by every language binding (spec §4.5's closed
// algorithm set). Solidity's compact-json AST and Vyper's JSON AST name
// their operator/operand fields differently, so each constructor here takes
// the field names as arguments rather than hardcoding one language's
// schema, the way the teacher's internal/engine/mappings.go centralizes its
// token-substitution tables instead of repeating them per mutator.
package common

import (
	"fmt"

	"github.com/go-gremlins/solmutate/internal/astjson"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

func field(n visitor.NodeRef, name string) astjson.Result {
	return n.Result().Get(name)
}

func setField(n visitor.NodeRef, name string, value any) (visitor.NodeRef, error) {
	newTree, err := n.Tree.Set(joinPath(n.Path, name), value)
	if err != nil {
		return n, err
	}

	return visitor.NodeRef{Tree: newTree, Path: n.Path}, nil
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}

	return base + "." + field
}

// pickDifferent returns a random element of set other than current.
func pickDifferent(r *rng.Source, set []string, current string) string {
	candidates := make([]string, 0, len(set)-1)
	for _, v := range set {
		if v != current {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return current
	}

	return candidates[r.Intn(len(candidates))]
}

// binaryOpMutator is the shared implementation behind ArithmeticBinaryOp,
// BitshiftBinaryOp, BitwiseBinaryOp and ComparisonBinaryOp: replace the
// operator at opField with a different element of set, on any node of
// kindValue.
type binaryOpMutator struct {
	tag       mutation.Tag
	kindField string
	kindValue string
	opField   string
	set       []string
}

// NewBinaryOpMutator builds the Mutator for one operator-substitution
// algorithm.
func NewBinaryOpMutator(tag mutation.Tag, kindField, kindValue, opField string, set []string) mutation.Mutator[visitor.NodeRef] {
	return &binaryOpMutator{tag: tag, kindField: kindField, kindValue: kindValue, opField: opField, set: set}
}

func (m *binaryOpMutator) Algorithm() mutation.Tag { return m.tag }

func (m *binaryOpMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}
	op := field(n, m.opField).String()
	for _, v := range m.set {
		if v == op {
			return true
		}
	}

	return false
}

func (m *binaryOpMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	op := field(n, m.opField).String()
	next := pickDifferent(r, m.set, op)
	out, err := setField(n, m.opField, next)
	if err != nil {
		return n, "", err
	}

	return out, mutation.Description(fmt.Sprintf("changed '%s' to '%s'", op, next)), nil
}

// NewSwapPairMutator replaces a binary value between exactly two choices
// (bitshift direction, logical operator) by always picking the other one -
// used when set has exactly two elements and determinism still requires a
// PRNG draw to keep the stream shape uniform across mutators.
func NewSwapPairMutator(tag mutation.Tag, kindField, kindValue, opField string, pair [2]string) mutation.Mutator[visitor.NodeRef] {
	return NewBinaryOpMutator(tag, kindField, kindValue, opField, pair[:])
}

// unaryOpMutator replaces a unary operator with a different one from set on
// any node of kindValue.
type unaryOpMutator struct {
	kindField string
	kindValue string
	opField   string
	set       []string
}

// NewUnaryOpMutator builds the UnaryOp Mutator.
func NewUnaryOpMutator(kindField, kindValue, opField string, set []string) mutation.Mutator[visitor.NodeRef] {
	return &unaryOpMutator{kindField: kindField, kindValue: kindValue, opField: opField, set: set}
}

func (m *unaryOpMutator) Algorithm() mutation.Tag { return mutation.UnaryOp }

func (m *unaryOpMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}
	op := field(n, m.opField).String()
	for _, v := range m.set {
		if v == op {
			return true
		}
	}

	return false
}

func (m *unaryOpMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	op := field(n, m.opField).String()
	next := pickDifferent(r, m.set, op)
	out, err := setField(n, m.opField, next)
	if err != nil {
		return n, "", err
	}

	return out, mutation.Description(fmt.Sprintf("changed '%s' to '%s'", op, next)), nil
}

// positionalUnaryOpMutator replaces a unary operator with a different one
// from the candidate set legal at that operator's prefix/postfix position,
// read from positionField - a flat set spanning both positions would offer
// e.g. "!" as a replacement for a postfix "--", which no language's grammar
// accepts in postfix position.
type positionalUnaryOpMutator struct {
	kindField     string
	kindValue     string
	opField       string
	positionField string
	prefixSet     []string
	postfixSet    []string
}

// NewPositionalUnaryOpMutator builds a UnaryOp Mutator that only offers
// replacements legal at the mutated node's own prefix/postfix position.
// positionField names the node's boolean "is this prefix" field; prefixSet
// and postfixSet are the operators legal in each position.
func NewPositionalUnaryOpMutator(kindField, kindValue, opField, positionField string, prefixSet, postfixSet []string) mutation.Mutator[visitor.NodeRef] {
	return &positionalUnaryOpMutator{
		kindField:     kindField,
		kindValue:     kindValue,
		opField:       opField,
		positionField: positionField,
		prefixSet:     prefixSet,
		postfixSet:    postfixSet,
	}
}

func (m *positionalUnaryOpMutator) Algorithm() mutation.Tag { return mutation.UnaryOp }

func (m *positionalUnaryOpMutator) set(n visitor.NodeRef) []string {
	if field(n, m.positionField).Bool() {
		return m.prefixSet
	}

	return m.postfixSet
}

func (m *positionalUnaryOpMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}
	op := field(n, m.opField).String()
	for _, v := range m.set(n) {
		if v == op {
			return true
		}
	}

	return false
}

func (m *positionalUnaryOpMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	op := field(n, m.opField).String()
	next := pickDifferent(r, m.set(n), op)
	out, err := setField(n, m.opField, next)
	if err != nil {
		return n, "", err
	}

	return out, mutation.Description(fmt.Sprintf("changed '%s' to '%s'", op, next)), nil
}

// swapOperatorArgumentsMutator swaps the left/right operand fields of a
// non-commutative binary expression.
type swapOperatorArgumentsMutator struct {
	kindField             string
	kindValue             string
	opField               string
	leftField, rightField string
	nonCommutative        []string
}

// NewSwapOperatorArgumentsMutator builds the SwapOperatorArguments Mutator.
func NewSwapOperatorArgumentsMutator(kindField, kindValue, opField, leftField, rightField string, nonCommutative []string) mutation.Mutator[visitor.NodeRef] {
	return &swapOperatorArgumentsMutator{kindField: kindField, kindValue: kindValue, opField: opField, leftField: leftField, rightField: rightField, nonCommutative: nonCommutative}
}

func (m *swapOperatorArgumentsMutator) Algorithm() mutation.Tag { return mutation.SwapOperatorArguments }

func (m *swapOperatorArgumentsMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}
	op := field(n, m.opField).String()
	for _, v := range m.nonCommutative {
		if v == op {
			return true
		}
	}

	return false
}

func (m *swapOperatorArgumentsMutator) Mutate(n visitor.NodeRef, _ *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	left := field(n, m.leftField).Raw
	right := field(n, m.rightField).Raw

	tree, err := n.Tree.SetRaw(joinPath(n.Path, m.leftField), right)
	if err != nil {
		return n, "", err
	}
	tree, err = tree.SetRaw(joinPath(n.Path, m.rightField), left)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("swapped operands"), nil
}

// ifStatementMutator replaces an if-condition with true, false, or its
// negation.
type ifStatementMutator struct {
	kindField, kindValue, conditionField string
	negate                               func(condRaw string) string
}

// NewIfStatementMutator builds the IfStatement Mutator. negate must wrap
// the raw condition JSON fragment in the language's logical-not syntax
// encoding.
func NewIfStatementMutator(kindField, kindValue, conditionField string, negate func(condRaw string) string) mutation.Mutator[visitor.NodeRef] {
	return &ifStatementMutator{kindField: kindField, kindValue: kindValue, conditionField: conditionField, negate: negate}
}

func (m *ifStatementMutator) Algorithm() mutation.Tag { return mutation.IfStatement }

func (m *ifStatementMutator) CanMutate(n visitor.NodeRef) bool {
	return n.Result().Kind(m.kindField) == m.kindValue
}

var ifReplacements = []string{"true", "false", "negate"}

func (m *ifStatementMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	choice := ifReplacements[r.Intn(len(ifReplacements))]
	condPath := joinPath(n.Path, m.conditionField)

	switch choice {
	case "true", "false":
		tree, err := n.Tree.Set(condPath+".value", choice)
		if err != nil {
			return n, "", err
		}
		tree, err = tree.Set(condPath+".kind", "boolLiteral")
		if err != nil {
			return n, "", err
		}

		return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description(fmt.Sprintf("changed condition to '%s'", choice)), nil
	default:
		raw := field(n, m.conditionField).Raw
		tree, err := n.Tree.SetRaw(condPath, m.negate(raw))
		if err != nil {
			return n, "", err
		}

		return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("negated condition"), nil
	}
}

// deleteStatementMutator removes a statement from its enclosing statement
// list, recognized by the parent already being whatever kind owns
// statementField (checked by the traversal walking into this node's own
// kind, not the parent's - so this mutator matches any node whose kind is
// in eligibleKinds, a language's list of "thing that can appear in a
// block's statement list").
type deleteStatementMutator struct {
	kindField      string
	eligibleKinds  map[string]struct{}
}

// NewDeleteStatementMutator builds the DeleteStatement Mutator.
func NewDeleteStatementMutator(kindField string, eligibleKinds []string) mutation.Mutator[visitor.NodeRef] {
	set := make(map[string]struct{}, len(eligibleKinds))
	for _, k := range eligibleKinds {
		set[k] = struct{}{}
	}

	return &deleteStatementMutator{kindField: kindField, eligibleKinds: set}
}

func (m *deleteStatementMutator) Algorithm() mutation.Tag { return mutation.DeleteStatement }

func (m *deleteStatementMutator) CanMutate(n visitor.NodeRef) bool {
	_, ok := m.eligibleKinds[n.Result().Kind(m.kindField)]

	return ok
}

func (m *deleteStatementMutator) Mutate(n visitor.NodeRef, _ *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	tree, err := n.Tree.Delete(n.Path)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("removed statement"), nil
}

// assignmentMutator replaces the right-hand side of an assignment with a
// random literal of the RHS's declared primitive type.
type assignmentMutator struct {
	kindField, kindValue, rhsField, rhsTypeField string
	literals                                     map[string]func(r *rng.Source) string
}

// NewAssignmentMutator builds the Assignment Mutator. literals maps a
// primitive type name (as recorded on the RHS node) to a function
// producing a fresh raw-JSON literal node of that type.
func NewAssignmentMutator(kindField, kindValue, rhsField, rhsTypeField string, literals map[string]func(r *rng.Source) string) mutation.Mutator[visitor.NodeRef] {
	return &assignmentMutator{kindField: kindField, kindValue: kindValue, rhsField: rhsField, rhsTypeField: rhsTypeField, literals: literals}
}

func (m *assignmentMutator) Algorithm() mutation.Tag { return mutation.Assignment }

func (m *assignmentMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}
	rhsType := field(n, m.rhsField).Get(m.rhsTypeField).String()
	_, ok := m.literals[rhsType]

	return ok
}

func (m *assignmentMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	rhsType := field(n, m.rhsField).Get(m.rhsTypeField).String()
	gen, ok := m.literals[rhsType]
	if !ok {
		return n, "", fmt.Errorf("common: no literal generator for type %q", rhsType)
	}
	rawOld := field(n, m.rhsField).Raw
	rawNew := gen(r)
	tree, err := n.Tree.SetRaw(joinPath(n.Path, m.rhsField), rawNew)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description(fmt.Sprintf("replaced assignment rhs (was %s)", rawOld)), nil
}

// integerMutator replaces an integer literal's value with the different
// integer gen returns for it. The Solidity and Vyper gens draw a
// non-negative value of at most 65536; the literal's declared width and
// sign are not consulted.
type integerMutator struct {
	kindField, kindValue, valueField string
	gen                              func(r *rng.Source, old string) string
}

// NewIntegerMutator builds the Integer Mutator.
func NewIntegerMutator(kindField, kindValue, valueField string, gen func(r *rng.Source, old string) string) mutation.Mutator[visitor.NodeRef] {
	return &integerMutator{kindField: kindField, kindValue: kindValue, valueField: valueField, gen: gen}
}

func (m *integerMutator) Algorithm() mutation.Tag { return mutation.Integer }

func (m *integerMutator) CanMutate(n visitor.NodeRef) bool {
	return n.Result().Kind(m.kindField) == m.kindValue && field(n, m.valueField).Exists()
}

func (m *integerMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	old := field(n, m.valueField).String()
	next := m.gen(r, old)
	tree, err := n.Tree.Set(joinPath(n.Path, m.valueField), next)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description(fmt.Sprintf("changed %s to %s", old, next)), nil
}

// functionCallMutator replaces a call expression with one of its
// arguments.
type functionCallMutator struct {
	kindField, kindValue, argsField string
}

// NewFunctionCallMutator builds the FunctionCall Mutator.
func NewFunctionCallMutator(kindField, kindValue, argsField string) mutation.Mutator[visitor.NodeRef] {
	return &functionCallMutator{kindField: kindField, kindValue: kindValue, argsField: argsField}
}

func (m *functionCallMutator) Algorithm() mutation.Tag { return mutation.FunctionCall }

func (m *functionCallMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}

	return len(field(n, m.argsField).Array()) >= 1
}

func (m *functionCallMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	args := field(n, m.argsField).Array()
	chosen := args[r.Intn(len(args))]
	tree, err := n.Tree.SetRaw(n.Path, chosen.Raw)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description("replaced call with argument"), nil
}

// swapFunctionArgumentsMutator swaps two distinct random argument
// positions of a call with at least two arguments.
type swapFunctionArgumentsMutator struct {
	kindField, kindValue, argsField string
}

// NewSwapFunctionArgumentsMutator builds the SwapFunctionArguments Mutator.
func NewSwapFunctionArgumentsMutator(kindField, kindValue, argsField string) mutation.Mutator[visitor.NodeRef] {
	return &swapFunctionArgumentsMutator{kindField: kindField, kindValue: kindValue, argsField: argsField}
}

func (m *swapFunctionArgumentsMutator) Algorithm() mutation.Tag { return mutation.SwapFunctionArguments }

func (m *swapFunctionArgumentsMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}

	return len(field(n, m.argsField).Array()) >= 2
}

func (m *swapFunctionArgumentsMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	args := field(n, m.argsField).Array()
	i := r.Intn(len(args))
	j := r.Intn(len(args) - 1)
	if j >= i {
		j++
	}

	basePath := joinPath(n.Path, m.argsField)
	tree, err := n.Tree.SetRaw(fmt.Sprintf("%s.%d", basePath, i), args[j].Raw)
	if err != nil {
		return n, "", err
	}
	tree, err = tree.SetRaw(fmt.Sprintf("%s.%d", basePath, j), args[i].Raw)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description(fmt.Sprintf("swapped arguments %d and %d", i, j)), nil
}

// linesSwapMutator swaps two distinct random statement positions within a
// block holding at least two statements.
type linesSwapMutator struct {
	kindField, kindValue, stmtsField string
}

// NewLinesSwapMutator builds the LinesSwap (alias SwapLines) Mutator.
func NewLinesSwapMutator(kindField, kindValue, stmtsField string) mutation.Mutator[visitor.NodeRef] {
	return &linesSwapMutator{kindField: kindField, kindValue: kindValue, stmtsField: stmtsField}
}

func (m *linesSwapMutator) Algorithm() mutation.Tag { return mutation.LinesSwap }

func (m *linesSwapMutator) CanMutate(n visitor.NodeRef) bool {
	if n.Result().Kind(m.kindField) != m.kindValue {
		return false
	}

	return len(field(n, m.stmtsField).Array()) >= 2
}

func (m *linesSwapMutator) Mutate(n visitor.NodeRef, r *rng.Source) (visitor.NodeRef, mutation.Description, error) {
	stmts := field(n, m.stmtsField).Array()
	i := r.Intn(len(stmts))
	j := r.Intn(len(stmts) - 1)
	if j >= i {
		j++
	}

	basePath := joinPath(n.Path, m.stmtsField)
	tree, err := n.Tree.SetRaw(fmt.Sprintf("%s.%d", basePath, i), stmts[j].Raw)
	if err != nil {
		return n, "", err
	}
	tree, err = tree.SetRaw(fmt.Sprintf("%s.%d", basePath, j), stmts[i].Raw)
	if err != nil {
		return n, "", err
	}

	return visitor.NodeRef{Tree: tree, Path: n.Path}, mutation.Description(fmt.Sprintf("swapped statements %d and %d", i, j)), nil
}
