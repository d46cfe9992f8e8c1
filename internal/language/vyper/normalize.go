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
	"encoding/json"
	"fmt"
)

// vyperOpSymbols maps vyper's Python-ast-derived operator node kinds to the
// flat symbol strings internal/mutation/common's BinOp/BoolOp/Compare
// mutators operate on.
var vyperOpSymbols = map[string]string{
	"Add": "+", "Sub": "-", "Mult": "*", "Div": "/", "Mod": "%", "Pow": "**",
	"LShift": "<<", "RShift": ">>",
	"BitAnd": "&", "BitOr": "|", "BitXor": "^",
	"Lt": "<", "LtE": "<=", "Gt": ">", "GtE": ">=", "Eq": "==", "NotEq": "!=",
	"And": "and", "Or": "or",
	"USub": "-", "Not": "not", "Invert": "~",
}

// normalizeVyperAST reshapes `vyper -f ast`'s real output into the flat
// op/left/right node shape internal/mutation/common's BinOp/BoolOp/Compare
// mutators assume, so those mutators work against compiled Vyper sources
// and not just hand-flattened fixtures.
//
// Three shapes are rewritten, each only when the field isn't already a
// plain string or object pair (so already-flat fixtures pass through
// unchanged):
//   - BinOp/UnaryOp: a nested {"ast_type":"Add", ...} "op" node becomes the
//     flat string "+".
//   - BoolOp: an n-ary "values" list becomes a "left"/"right" pair,
//     right-associating chains of three or more operands into nested
//     synthetic BoolOp nodes so no operand is dropped.
//   - Compare: single-comparison "ops"/"comparators" lists (the overwhelming
//     majority of real conditions) become a flat "op"/"right" pair. Chained
//     comparisons (`a < b < c`, len(ops) > 1) are left as-is - flattening a
//     chain into one op/right pair would silently drop comparisons, so
//     ComparisonBinaryOp simply finds no site on those nodes instead.
func normalizeVyperAST(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("vyper: unmarshal ast: %w", err)
	}

	normalized := normalizeNode(doc)

	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("vyper: remarshal ast: %w", err)
	}

	return out, nil
}

func normalizeNode(v any) any {
	switch n := v.(type) {
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeNode(e)
		}

		return out
	case map[string]any:
		return normalizeObject(n)
	default:
		return v
	}
}

func normalizeObject(n map[string]any) map[string]any {
	for k, v := range n {
		n[k] = normalizeNode(v)
	}

	switch n["ast_type"] {
	case "BinOp", "UnaryOp":
		flattenOpField(n)
	case "BoolOp":
		flattenBoolOp(n)
	case "Compare":
		flattenCompare(n)
	}

	return n
}

// flattenOpField turns a nested {"ast_type":"Add"} "op" node into "+". A
// no-op if "op" is already a string (hand-flattened fixtures).
func flattenOpField(n map[string]any) {
	op, ok := n["op"].(map[string]any)
	if !ok {
		return
	}
	kind, _ := op["ast_type"].(string)
	if sym, ok := vyperOpSymbols[kind]; ok {
		n["op"] = sym
	}
}

// flattenBoolOp turns op (a nested node) plus an n-ary "values" list into a
// flat "op"/"left"/"right" pair. A no-op if "values" isn't a list (already
// flat), so hand-flattened fixtures pass through unchanged.
func flattenBoolOp(n map[string]any) {
	op, ok := n["op"].(map[string]any)
	if !ok {
		return
	}
	kind, _ := op["ast_type"].(string)
	sym, ok := vyperOpSymbols[kind]
	if !ok {
		return
	}

	values, ok := n["values"].([]any)
	if !ok || len(values) < 2 {
		return
	}

	n["op"] = sym
	n["left"] = values[0]
	n["right"] = rightAssociateBoolOp(sym, values[1:])
	delete(n, "values")
}

// rightAssociateBoolOp folds a BoolOp chain's remaining operands into
// nested synthetic BoolOp nodes, right-associated, so a 3+ operand chain
// loses nothing by being expressed as a binary tree.
func rightAssociateBoolOp(sym string, rest []any) any {
	if len(rest) == 1 {
		return rest[0]
	}

	return map[string]any{
		"ast_type": "BoolOp",
		"op":       sym,
		"left":     rest[0],
		"right":    rightAssociateBoolOp(sym, rest[1:]),
	}
}

// flattenCompare turns a single-comparison node's "ops"/"comparators"
// lists into a flat "op"/"right" pair. Chained comparisons
// (len(ops) > 1) are left untouched; see the package-level doc comment.
func flattenCompare(n map[string]any) {
	ops, ok := n["ops"].([]any)
	if !ok || len(ops) != 1 {
		return
	}
	comparators, ok := n["comparators"].([]any)
	if !ok || len(comparators) != 1 {
		return
	}
	opNode, ok := ops[0].(map[string]any)
	if !ok {
		return
	}
	kind, _ := opNode["ast_type"].(string)
	sym, ok := vyperOpSymbols[kind]
	if !ok {
		return
	}

	n["op"] = sym
	n["right"] = comparators[0]
	delete(n, "ops")
	delete(n, "comparators")
}
