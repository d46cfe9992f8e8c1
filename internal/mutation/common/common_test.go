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

package common_test

import (
	"strings"
	"testing"

	"github.com/go-gremlins/solmutate/internal/astjson"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/mutation/common"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

func rootFrom(t *testing.T, raw string) visitor.NodeRef {
	t.Helper()

	tree, err := astjson.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return visitor.NodeRef{Tree: tree, Path: ""}
}

func TestBinaryOpMutator(t *testing.T) {
	m := common.NewBinaryOpMutator(mutation.ArithmeticBinaryOp, "nodeType", "BinaryOperation", "operator", []string{"+", "-", "*", "/"})
	n := rootFrom(t, `{"nodeType": "BinaryOperation", "operator": "+"}`)

	if !m.CanMutate(n) {
		t.Fatal("expected CanMutate to be true for a matching operator")
	}
	if m.Algorithm() != mutation.ArithmeticBinaryOp {
		t.Errorf("want ArithmeticBinaryOp, got %v", m.Algorithm())
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result().Get("operator").String() == "+" {
		t.Error("expected the operator to change")
	}
	if !strings.Contains(string(desc), "changed '+' to") {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestBinaryOpMutatorCanMutateRejectsWrongKindOrOperator(t *testing.T) {
	m := common.NewBinaryOpMutator(mutation.ArithmeticBinaryOp, "nodeType", "BinaryOperation", "operator", []string{"+", "-"})

	if m.CanMutate(rootFrom(t, `{"nodeType": "Literal", "operator": "+"}`)) {
		t.Error("did not expect a non-matching kind to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "BinaryOperation", "operator": "&&"}`)) {
		t.Error("did not expect an operator outside the set to be mutable")
	}
}

func TestSwapPairMutator(t *testing.T) {
	m := common.NewSwapPairMutator(mutation.BitshiftBinaryOp, "nodeType", "BinaryOperation", "operator", [2]string{"<<", ">>"})
	n := rootFrom(t, `{"nodeType": "BinaryOperation", "operator": "<<"}`)

	out, _, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result().Get("operator").String(); got != ">>" {
		t.Errorf("want >>, got %s", got)
	}
}

func TestPositionalUnaryOpMutatorPrefixGetsFullSet(t *testing.T) {
	prefixSet := []string{"-", "!", "~", "++", "--"}
	postfixSet := []string{"++", "--"}
	m := common.NewPositionalUnaryOpMutator("nodeType", "UnaryOperation", "operator", "prefix", prefixSet, postfixSet)
	n := rootFrom(t, `{"nodeType": "UnaryOperation", "operator": "-", "prefix": true}`)

	if !m.CanMutate(n) {
		t.Fatal("expected a prefix-only operator to be mutable when prefix is true")
	}

	seen := map[string]bool{}
	for seed := int64(0); seed < 50; seed++ {
		out, _, err := m.Mutate(n, rng.New(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[out.Result().Get("operator").String()] = true
	}
	if !seen["!"] || !seen["++"] {
		t.Errorf("expected a prefix node's replacements to range over the full set, got %v", seen)
	}
}

func TestPositionalUnaryOpMutatorPostfixRestrictsSet(t *testing.T) {
	prefixSet := []string{"-", "!", "~", "++", "--"}
	postfixSet := []string{"++", "--"}
	m := common.NewPositionalUnaryOpMutator("nodeType", "UnaryOperation", "operator", "prefix", prefixSet, postfixSet)
	n := rootFrom(t, `{"nodeType": "UnaryOperation", "operator": "--", "prefix": false}`)

	if !m.CanMutate(n) {
		t.Fatal("expected a postfix '--' to be mutable")
	}

	for seed := int64(0); seed < 50; seed++ {
		out, _, err := m.Mutate(n, rng.New(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Result().Get("operator").String(); got != "++" {
			t.Errorf("postfix '--' must only ever mutate to '++', got %q", got)
		}
	}
}

func TestPositionalUnaryOpMutatorRejectsPrefixOnlyOpInPostfixPosition(t *testing.T) {
	prefixSet := []string{"-", "!", "~", "++", "--"}
	postfixSet := []string{"++", "--"}
	m := common.NewPositionalUnaryOpMutator("nodeType", "UnaryOperation", "operator", "prefix", prefixSet, postfixSet)
	n := rootFrom(t, `{"nodeType": "UnaryOperation", "operator": "!", "prefix": false}`)

	if m.CanMutate(n) {
		t.Fatal("a prefix-only operator in postfix position should not be considered mutable")
	}
}

func TestUnaryOpMutator(t *testing.T) {
	m := common.NewUnaryOpMutator("nodeType", "UnaryOperation", "operator", []string{"++", "--"})
	n := rootFrom(t, `{"nodeType": "UnaryOperation", "operator": "++"}`)

	if m.Algorithm() != mutation.UnaryOp {
		t.Errorf("want UnaryOp, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected a matching unary op to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result().Get("operator").String(); got != "--" {
		t.Errorf("want --, got %s", got)
	}
	if !strings.Contains(string(desc), "changed '++' to '--'") {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestSwapOperatorArgumentsMutator(t *testing.T) {
	m := common.NewSwapOperatorArgumentsMutator("nodeType", "BinaryOperation", "operator", "leftExpression", "rightExpression", []string{"-", "/"})
	n := rootFrom(t, `{"nodeType": "BinaryOperation", "operator": "-", "leftExpression": {"value": 1}, "rightExpression": {"value": 2}}`)

	if !m.CanMutate(n) {
		t.Fatal("expected a non-commutative operator to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "BinaryOperation", "operator": "+", "leftExpression": {}, "rightExpression": {}}`)) {
		t.Error("did not expect a commutative operator to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := out.Result().Get("leftExpression.value").Int(); v != 2 {
		t.Errorf("want left to become 2, got %d", v)
	}
	if v := out.Result().Get("rightExpression.value").Int(); v != 1 {
		t.Errorf("want right to become 1, got %d", v)
	}
	if desc != "swapped operands" {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestIfStatementMutator(t *testing.T) {
	negate := func(raw string) string { return `{"nodeType": "UnaryOperation", "operator": "!", "subExpression": ` + raw + `}` }
	m := common.NewIfStatementMutator("nodeType", "IfStatement", "condition", negate)
	n := rootFrom(t, `{"nodeType": "IfStatement", "condition": {"nodeType": "Identifier", "name": "ok"}}`)

	if m.Algorithm() != mutation.IfStatement {
		t.Errorf("want IfStatement, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected an IfStatement node to be mutable")
	}

	seenTrue, seenFalse, seenNegate := false, false, false
	for seed := int64(0); seed < 30 && !(seenTrue && seenFalse && seenNegate); seed++ {
		out, desc, err := m.Mutate(n, rng.New(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		switch {
		case strings.Contains(string(desc), "changed condition to 'true'"):
			seenTrue = true
			if out.Result().Get("condition.value").String() != "true" {
				t.Error("expected condition.value to be 'true'")
			}
		case strings.Contains(string(desc), "changed condition to 'false'"):
			seenFalse = true
		case desc == "negated condition":
			seenNegate = true
			if out.Result().Get("condition.operator").String() != "!" {
				t.Error("expected the condition to be wrapped in a negation")
			}
		default:
			t.Fatalf("unexpected description: %s", desc)
		}
	}
	if !seenTrue || !seenFalse || !seenNegate {
		t.Fatalf("expected to see all three replacement choices across seeds, got true=%v false=%v negate=%v", seenTrue, seenFalse, seenNegate)
	}
}

func TestDeleteStatementMutator(t *testing.T) {
	m := common.NewDeleteStatementMutator("nodeType", []string{"ExpressionStatement", "Return"})
	root := rootFrom(t, `{"nodeType": "Block", "statements": [{"nodeType": "ExpressionStatement"}, {"nodeType": "Return"}]}`)

	if m.Algorithm() != mutation.DeleteStatement {
		t.Errorf("want DeleteStatement, got %v", m.Algorithm())
	}

	target := visitor.NodeRef{Tree: root.Tree, Path: "statements.0"}
	if !m.CanMutate(target) {
		t.Fatal("expected an eligible statement kind to be mutable")
	}
	if m.CanMutate(visitor.NodeRef{Tree: root.Tree, Path: ""}) {
		t.Error("did not expect the Block itself to be mutable")
	}

	out, desc, err := m.Mutate(target, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc != "removed statement" {
		t.Errorf("unexpected description: %s", desc)
	}
	stmts := out.Result().Get("statements").Array()
	if len(stmts) != 1 {
		t.Fatalf("want 1 remaining statement, got %d", len(stmts))
	}
	if stmts[0].Get("nodeType").String() != "Return" {
		t.Error("expected the Return statement to survive")
	}
}

func TestAssignmentMutator(t *testing.T) {
	literals := map[string]func(r *rng.Source) string{
		"bool": func(_ *rng.Source) string { return `{"nodeType": "Literal", "kind": "bool", "value": "false"}` },
	}
	m := common.NewAssignmentMutator("nodeType", "Assignment", "rightHandSide", "typeDescriptions.typeString", literals)
	n := rootFrom(t, `{"nodeType": "Assignment", "rightHandSide": {"nodeType": "Literal", "kind": "bool", "value": "true", "typeDescriptions": {"typeString": "bool"}}}`)

	if m.Algorithm() != mutation.Assignment {
		t.Errorf("want Assignment, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected a bool rhs to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "Assignment", "rightHandSide": {"typeDescriptions": {"typeString": "unhandled"}}}`)) {
		t.Error("did not expect an rhs type with no literal generator to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result().Get("rightHandSide.value").String(); got != "false" {
		t.Errorf("want false, got %s", got)
	}
	if !strings.Contains(string(desc), "replaced assignment rhs") {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestIntegerMutator(t *testing.T) {
	gen := func(_ *rng.Source, old string) string {
		if old == "1" {
			return "2"
		}

		return "1"
	}
	m := common.NewIntegerMutator("nodeType", "Literal", "value", gen)
	n := rootFrom(t, `{"nodeType": "Literal", "kind": "number", "value": "1"}`)

	if m.Algorithm() != mutation.Integer {
		t.Errorf("want Integer, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected a literal with a value field to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "Identifier"}`)) {
		t.Error("did not expect a non-literal to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Result().Get("value").String(); got != "2" {
		t.Errorf("want 2, got %s", got)
	}
	if desc != "changed 1 to 2" {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestFunctionCallMutator(t *testing.T) {
	m := common.NewFunctionCallMutator("nodeType", "FunctionCall", "arguments")
	n := rootFrom(t, `{"nodeType": "FunctionCall", "arguments": [{"nodeType": "Identifier", "name": "a"}]}`)

	if m.Algorithm() != mutation.FunctionCall {
		t.Errorf("want FunctionCall, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected a call with at least one argument to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "FunctionCall", "arguments": []}`)) {
		t.Error("did not expect a zero-argument call to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Result().Get("nodeType").String() != "Identifier" {
		t.Error("expected the call to be replaced by its argument")
	}
	if desc != "replaced call with argument" {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestSwapFunctionArgumentsMutator(t *testing.T) {
	m := common.NewSwapFunctionArgumentsMutator("nodeType", "FunctionCall", "arguments")
	n := rootFrom(t, `{"nodeType": "FunctionCall", "arguments": [{"value": 1}, {"value": 2}, {"value": 3}]}`)

	if m.Algorithm() != mutation.SwapFunctionArguments {
		t.Errorf("want SwapFunctionArguments, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected a call with 2+ arguments to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "FunctionCall", "arguments": [{"value": 1}]}`)) {
		t.Error("did not expect a single-argument call to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := out.Result().Get("arguments").Array()
	sum := values[0].Int() + values[1].Int() + values[2].Int()
	if sum != 6 {
		t.Errorf("expected the swap to preserve all three values, got sum %d", sum)
	}
	if values[0].Int() == 1 && values[1].Int() == 2 && values[2].Int() == 3 {
		t.Error("expected two distinct argument positions to have been swapped")
	}
	if !strings.Contains(string(desc), "swapped arguments") {
		t.Errorf("unexpected description: %s", desc)
	}
}

func TestLinesSwapMutator(t *testing.T) {
	m := common.NewLinesSwapMutator("nodeType", "Block", "statements")
	n := rootFrom(t, `{"nodeType": "Block", "statements": [{"id": 1}, {"id": 2}, {"id": 3}]}`)

	if m.Algorithm() != mutation.LinesSwap {
		t.Errorf("want LinesSwap, got %v", m.Algorithm())
	}
	if !m.CanMutate(n) {
		t.Fatal("expected a block with 2+ statements to be mutable")
	}
	if m.CanMutate(rootFrom(t, `{"nodeType": "Block", "statements": [{"id": 1}]}`)) {
		t.Error("did not expect a single-statement block to be mutable")
	}

	out, desc, err := m.Mutate(n, rng.New(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := out.Result().Get("statements").Array()
	sum := ids[0].Get("id").Int() + ids[1].Get("id").Int() + ids[2].Get("id").Int()
	if sum != 6 {
		t.Errorf("expected the swap to preserve all three statements, got sum %d", sum)
	}
	if !strings.Contains(string(desc), "swapped statements") {
		t.Errorf("unexpected description: %s", desc)
	}
}
