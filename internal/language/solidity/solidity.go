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

// Package solidity binds the generic internal/language/jsonlang machinery
// to solc's compact-json AST: node kinds are read from "nodeType", node ids
// from "id", and the compiler is invoked per spec §6.4's Solidity flag set.
package solidity

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/language/jsonlang"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/mutation/common"
	"github.com/go-gremlins/solmutate/internal/nodeprinter"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

const (
	kindField = "nodeType"
	idField   = "id"
)

// New builds the Solidity MutableLanguage binding.
func New() *jsonlang.Language {
	return jsonlang.New(&jsonlang.Spec{
		Tag:           "solidity",
		NodeKindField: kindField,
		IDField:       idField,
		ChildFields: map[string][]string{
			"SourceUnit":                   {"nodes"},
			"ContractDefinition":           {"nodes"},
			"FunctionDefinition":           {"body"},
			"Block":                        {"statements"},
			"UncheckedBlock":               {"statements"},
			"IfStatement":                  {"condition", "trueBody", "falseBody"},
			"ExpressionStatement":          {"expression"},
			"Return":                       {"expression"},
			"Assignment":                   {"leftHandSide", "rightHandSide"},
			"BinaryOperation":              {"leftExpression", "rightExpression"},
			"UnaryOperation":               {"subExpression"},
			"FunctionCall":                 {"expression", "arguments"},
			"MemberAccess":                 {"expression"},
			"VariableDeclarationStatement": {"declarations", "initialValue"},
		},
		StatementListKinds: map[string]string{
			"Block":           "statements",
			"UncheckedBlock":  "statements",
			"ContractDefinition": "nodes",
			"SourceUnit":      "nodes",
		},
		FunctionKind:      "FunctionDefinition",
		FunctionNameField: "name",
		CommentKind:       "__Comment__",
		SourceExt:         ".sol",
		Mutators:          mutators,
		RegisterPrinters:  registerPrinters,
		Compile:           compile,
		CompileCheck:      compileCheck,
		Defaults:          defaults,
	})
}

func defaults() language.CompilerSettings {
	return language.CompilerSettings{Path: "solc"}
}

func solidityArgs(srcPath string, settings language.CompilerSettings) []string {
	args := []string{"--ast-compact-json"}
	if settings.BasePath != "" {
		args = append(args, "--base-path", settings.BasePath)
	}
	for _, p := range settings.IncludePaths {
		args = append(args, "--include-path", p)
	}
	if len(settings.AllowPaths) > 0 {
		args = append(args, "--allow-paths", strings.Join(settings.AllowPaths, ","))
	}
	args = append(args, settings.Remappings...)
	args = append(args, srcPath)

	return args
}

func compile(ctx context.Context, srcPath string, settings language.CompilerSettings) ([]byte, error) {
	bin := settings.Path
	if bin == "" {
		bin = "solc"
	}

	return language.RunCompiler(ctx, bin, solidityArgs(srcPath, settings))
}

func compileCheck(ctx context.Context, source string, settings language.CompilerSettings) (bool, error) {
	tmp, err := os.CreateTemp("", "solmutate-validate-*.sol")
	if err != nil {
		return false, fmt.Errorf("solidity: create validation temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(source); err != nil {
		return false, fmt.Errorf("solidity: write validation temp file: %w", err)
	}
	_ = tmp.Close()

	_, err = compile(ctx, tmp.Name(), settings)
	if err != nil {
		var ce *language.CompilerError
		if ok := asCompilerError(err, &ce); ok {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func asCompilerError(err error, target **language.CompilerError) bool {
	ce, ok := err.(*language.CompilerError)
	if ok {
		*target = ce
	}

	return ok
}

func negateExpr(raw string) string {
	return fmt.Sprintf(`{"nodeType":"UnaryOperation","operator":"!","prefix":true,"subExpression":%s}`, raw)
}

func mutators() []mutation.Mutator[visitor.NodeRef] {
	arithmetic := []string{"+", "-", "*", "/", "%", "**"}
	bitshift := [2]string{"<<", ">>"}
	bitwise := []string{"&", "|", "^"}
	comparison := []string{"<", "<=", ">", ">=", "==", "!="}
	logical := [2]string{"&&", "||"}
	unaryPrefix := []string{"-", "!", "~", "++", "--"}
	unaryPostfix := []string{"++", "--"}
	nonCommutative := []string{"-", "/", "%", "**", "<", "<=", ">", ">="}

	literals := map[string]func(r *rng.Source) string{
		"bool":   func(r *rng.Source) string { return boolLiteral(r) },
		"uint":   func(r *rng.Source) string { return intLiteral(r, false) },
		"int":    func(r *rng.Source) string { return intLiteral(r, true) },
		"string": func(r *rng.Source) string { return fmt.Sprintf(`{"nodeType":"Literal","kind":"string","value":"mutated"}`) },
	}

	ms := []mutation.Mutator[visitor.NodeRef]{
		common.NewBinaryOpMutator(mutation.ArithmeticBinaryOp, kindField, "BinaryOperation", "operator", arithmetic),
		common.NewSwapPairMutator(mutation.BitshiftBinaryOp, kindField, "BinaryOperation", "operator", bitshift),
		common.NewBinaryOpMutator(mutation.BitwiseBinaryOp, kindField, "BinaryOperation", "operator", bitwise),
		common.NewBinaryOpMutator(mutation.ComparisonBinaryOp, kindField, "BinaryOperation", "operator", comparison),
		common.NewSwapPairMutator(mutation.LogicalBinaryOp, kindField, "BinaryOperation", "operator", logical),
		common.NewPositionalUnaryOpMutator(kindField, "UnaryOperation", "operator", "prefix", unaryPrefix, unaryPostfix),
		common.NewAssignmentMutator(kindField, "Assignment", "rightHandSide", "typeDescriptions.typeIdentifier", literals),
		common.NewIntegerMutator(kindField, "Literal", "value", integerGen),
		common.NewFunctionCallMutator(kindField, "FunctionCall", "arguments"),
		common.NewSwapFunctionArgumentsMutator(kindField, "FunctionCall", "arguments"),
		common.NewSwapOperatorArgumentsMutator(kindField, "BinaryOperation", "operator", "leftExpression", "rightExpression", nonCommutative),
		common.NewIfStatementMutator(kindField, "IfStatement", "condition", negateExpr),
		common.NewDeleteStatementMutator(kindField, []string{
			"ExpressionStatement", "VariableDeclarationStatement", "Return", "IfStatement", "UncheckedBlock",
		}),
		common.NewLinesSwapMutator(kindField, "Block", "statements"),
		newElimDelegateCallMutator(),
		newRequireMutator(),
		newUncheckedBlockMutator(),
	}

	return ms
}

func boolLiteral(r *rng.Source) string {
	v := "false"
	if r.Intn(2) == 1 {
		v = "true"
	}

	return fmt.Sprintf(`{"nodeType":"Literal","kind":"bool","value":%q}`, v)
}

func intLiteral(r *rng.Source, signed bool) string {
	v := r.Intn(1 << 16)
	if signed && r.Intn(2) == 1 {
		v = -v
	}

	return fmt.Sprintf(`{"nodeType":"Literal","kind":"number","value":"%d"}`, v)
}

func integerGen(r *rng.Source, old string) string {
	n, err := strconv.Atoi(old)
	if err != nil {
		n = 0
	}
	next := r.Intn(1 << 16)
	if next == n {
		next++
	}

	return strconv.Itoa(next)
}

func registerPrinters(f *nodeprinter.Factory) {
	registerSolidityPrinters(f)
}
