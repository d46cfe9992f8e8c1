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

// Package mutation holds the closed catalog of mutation algorithm tags
// (spec §4.5) and the Mutator/MutatorFactory contracts that every
// (language, algorithm) binding implements. It mirrors the shape of the
// teacher's internal/mutator package (Type enum + String()) but the tag set
// and every rewrite rule below are specific to this domain.
package mutation

import (
	"fmt"

	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/rng"
)

// Tag names one mutation algorithm family. The set is closed and versioned
// (spec §6.3); adding a member requires a Catalog entry and at least one
// language binding.
type Tag int

const (
	ArithmeticBinaryOp Tag = iota
	BitshiftBinaryOp
	BitwiseBinaryOp
	ComparisonBinaryOp
	LogicalBinaryOp
	UnaryOp
	Assignment
	Integer
	FunctionCall
	SwapFunctionArguments
	SwapOperatorArguments
	IfStatement
	DeleteStatement
	LinesSwap
	ElimDelegateCall
	Require
	UncheckedBlock
)

// Tags lists every member of the closed set in declaration order, used by
// `algorithms -l/-d` and by `-a` (select all).
var Tags = []Tag{
	ArithmeticBinaryOp,
	BitshiftBinaryOp,
	BitwiseBinaryOp,
	ComparisonBinaryOp,
	LogicalBinaryOp,
	UnaryOp,
	Assignment,
	Integer,
	FunctionCall,
	SwapFunctionArguments,
	SwapOperatorArguments,
	IfStatement,
	DeleteStatement,
	LinesSwap,
	ElimDelegateCall,
	Require,
	UncheckedBlock,
}

// String is the tag's canonical name, used verbatim in comments
// ("// <Tag> Mutator: ...") and CLI flags.
func (t Tag) String() string {
	switch t {
	case ArithmeticBinaryOp:
		return "ArithmeticBinaryOp"
	case BitshiftBinaryOp:
		return "BitshiftBinaryOp"
	case BitwiseBinaryOp:
		return "BitwiseBinaryOp"
	case ComparisonBinaryOp:
		return "ComparisonBinaryOp"
	case LogicalBinaryOp:
		return "LogicalBinaryOp"
	case UnaryOp:
		return "UnaryOp"
	case Assignment:
		return "Assignment"
	case Integer:
		return "Integer"
	case FunctionCall:
		return "FunctionCall"
	case SwapFunctionArguments:
		return "SwapFunctionArguments"
	case SwapOperatorArguments:
		return "SwapOperatorArguments"
	case IfStatement:
		return "IfStatement"
	case DeleteStatement:
		return "DeleteStatement"
	case LinesSwap:
		return "SwapLines"
	case ElimDelegateCall:
		return "ElimDelegateCall"
	case Require:
		return "Require"
	case UncheckedBlock:
		return "UncheckedBlock"
	}

	return "unknown"
}

// ParseTag resolves a Tag from its String() form, accepting "SwapLines" as
// the documented alias for LinesSwap.
func ParseTag(s string) (Tag, bool) {
	if s == "SwapLines" {
		return LinesSwap, true
	}
	for _, t := range Tags {
		if t.String() == s {
			return t, true
		}
	}

	return 0, false
}

// CatalogEntry is the static documentation for one Tag, used by
// `algorithms -l` (Summary) and `algorithms -d` (+ Operators, Example).
type CatalogEntry struct {
	Tag       Tag
	Summary   string
	Operators []string
	Example   string // "before -> after"
}

// Catalog documents every Tag in the closed set, independent of any
// language binding's actual availability for it.
var Catalog = map[Tag]CatalogEntry{
	ArithmeticBinaryOp: {
		Tag: ArithmeticBinaryOp, Summary: "replaces an arithmetic operator with a different one",
		Operators: []string{"+", "-", "*", "/", "%", "**"},
		Example:   "a + b -> a - b",
	},
	BitshiftBinaryOp: {
		Tag: BitshiftBinaryOp, Summary: "swaps a left/right bitshift",
		Operators: []string{"<<", ">>"},
		Example:   "a << b -> a >> b",
	},
	BitwiseBinaryOp: {
		Tag: BitwiseBinaryOp, Summary: "replaces a bitwise operator with a different one",
		Operators: []string{"&", "|", "^"},
		Example:   "a & b -> a | b",
	},
	ComparisonBinaryOp: {
		Tag: ComparisonBinaryOp, Summary: "replaces a comparison operator with a different one",
		Operators: []string{"<", "<=", ">", ">=", "==", "!="},
		Example:   "a < b -> a >= b",
	},
	LogicalBinaryOp: {
		Tag: LogicalBinaryOp, Summary: "swaps a logical AND/OR",
		Operators: []string{"&&", "||"},
		Example:   "a && b -> a || b",
	},
	UnaryOp: {
		Tag: UnaryOp, Summary: "replaces a unary operator with a different one of matching position",
		Operators: []string{"-", "!", "~", "++", "--"},
		Example:   "!a -> ~a",
	},
	Assignment: {
		Tag: Assignment, Summary: "replaces the right-hand side of an assignment with a random literal",
		Example: "x = a + b -> x = 0",
	},
	Integer: {
		Tag: Integer, Summary: "replaces an integer literal with a different non-negative integer (at most 65536), whatever the literal's width/sign",
		Example: "5 -> 113",
	},
	FunctionCall: {
		Tag: FunctionCall, Summary: "replaces a call expression with one of its arguments",
		Example: "f(a, b) -> a",
	},
	SwapFunctionArguments: {
		Tag: SwapFunctionArguments, Summary: "swaps two arguments of a call",
		Example: "f(a, b, c) -> f(c, b, a)",
	},
	SwapOperatorArguments: {
		Tag: SwapOperatorArguments, Summary: "swaps the operands of a non-commutative binary operator",
		Example: "a - b -> b - a",
	},
	IfStatement: {
		Tag: IfStatement, Summary: "replaces an if-condition with true, false or its negation",
		Operators: []string{"true", "false", "!(c)"},
		Example:   "if (c) { ... } -> if (!(c)) { ... }",
	},
	DeleteStatement: {
		Tag: DeleteStatement, Summary: "removes a statement from its enclosing block",
		Example: "{ x = 1; y = 2; } -> { y = 2; }",
	},
	LinesSwap: {
		Tag: LinesSwap, Summary: "swaps two statements within a block",
		Example: "{ x = 1; y = 2; } -> { y = 2; x = 1; }",
	},
	ElimDelegateCall: {
		Tag: ElimDelegateCall, Summary: "rewrites a delegatecall into a call",
		Example: "target.delegatecall(data) -> target.call(data)",
	},
	Require: {
		Tag: Require, Summary: "negates the condition of a require()",
		Example: "require(a && b, \"m\") -> require(!(a && b), \"m\")",
	},
	UncheckedBlock: {
		Tag: UncheckedBlock, Summary: "wraps an expression statement in an unchecked block",
		Example: "x += 1; -> unchecked { x += 1; }",
	},
}

// Description is the human-readable record of one rewrite, used verbatim
// in the inserted comment ("<Tag> Mutator: <Description>").
type Description string

// Mutator identifies and rewrites nodes of the language-specific tree T for
// exactly one algorithm Tag. Implementations must be side-effect free in
// CanMutate and draw all randomness from the supplied Source (spec §3
// determinism invariant).
type Mutator[T any] interface {
	Algorithm() mutationTagger
	CanMutate(node T) bool
	Mutate(node T, r *rng.Source) (T, Description, error)
}

// mutationTagger is satisfied by Tag; kept as a named type so Mutator's
// Algorithm method reads naturally without importing astx here.
type mutationTagger = Tag

// Site pairs a mutation-eligible node path with the algorithm that can
// mutate it (spec §3 "mutation site").
type Site struct {
	Path      astx.Path
	Algorithm Tag
}

// Factory resolves a Mutator for a (algorithm) within one language binding,
// or reports ErrAlgorithmNotSupported.
type Factory[T any] interface {
	Mutator(tag Tag) (Mutator[T], error)
}

// ErrAlgorithmNotSupported is returned by a Factory when the language
// binding has no Mutator registered for the requested Tag.
type ErrAlgorithmNotSupported struct {
	Tag      Tag
	Language string
}

func (e *ErrAlgorithmNotSupported) Error() string {
	return fmt.Sprintf("algorithm %s not supported for language %s", e.Tag, e.Language)
}
