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

// Package vyper binds the generic internal/language/jsonlang machinery to
// vyper's JSON AST: node kinds are read from "ast_type", node ids from
// "node_id", and the compiler is invoked per spec §6.4's Vyper flag set.
//
// Vyper's real AST encodes a BinOp/UnaryOp's operator and a BoolOp's
// operator+operand list as nested nodes (e.g. {"ast_type":"Add"}, an n-ary
// "values" list) rather than a flat string and a plain "left"/"right" pair,
// and a Compare spreads its right-hand side across "comparators"/"ops"
// lists to support chained comparisons. normalizeVyperAST (normalize.go)
// flattens the first three into the shape Solidity's BinaryOperation
// already has, and flattens Compare for the single-comparison case, so
// both languages share internal/mutation/common instead of each growing a
// bespoke operator substitution mutator. It runs as LoadAST's
// jsonlang.Spec.NormalizeAST hook, so it applies to both `vyper -f ast`
// output and AST-file input. Chained comparisons (`a < b < c`) are left
// unflattened - see normalize.go's flattenCompare. See DESIGN.md.
package vyper

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/language/jsonlang"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/mutation/common"
	"github.com/go-gremlins/solmutate/internal/nodeprinter"
	"github.com/go-gremlins/solmutate/internal/rng"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

const (
	kindField = "ast_type"
	idField   = "node_id"
)

// New builds the Vyper MutableLanguage binding.
func New() *jsonlang.Language {
	return jsonlang.New(&jsonlang.Spec{
		Tag:           "vyper",
		NodeKindField: kindField,
		IDField:       idField,
		ChildFields: map[string][]string{
			"Module":     {"body"},
			"FunctionDef": {"body"},
			"If":         {"test", "body", "orelse"},
			"Expr":       {"value"},
			"Return":     {"value"},
			"Assign":     {"target", "value"},
			"AnnAssign":  {"target", "annotation", "value"},
			"BinOp":      {"left", "right"},
			"BoolOp":     {"left", "right"},
			"Compare":    {"left", "right"},
			"UnaryOp":    {"operand"},
			"Call":       {"func", "args"},
			"Attribute":  {"value"},
		},
		StatementListKinds: map[string]string{
			"FunctionDef": "body",
			"Module":      "body",
			"If":          "body",
		},
		FunctionKind:      "FunctionDef",
		FunctionNameField: "name",
		CommentKind:       "__Comment__",
		SourceExt:         ".vy",
		Mutators:          mutators,
		RegisterPrinters:  registerPrinters,
		Compile:           compile,
		CompileCheck:      compileCheck,
		Defaults:          defaults,
		NormalizeAST:      normalizeVyperAST,
	})
}

func defaults() language.CompilerSettings {
	return language.CompilerSettings{Path: "vyper"}
}

func vyperArgs(srcPath string, settings language.CompilerSettings) []string {
	args := []string{}
	if settings.RootPath != "" {
		args = append(args, "-p", settings.RootPath)
	}
	args = append(args, "-f", "ast", srcPath)

	return args
}

func compile(ctx context.Context, srcPath string, settings language.CompilerSettings) ([]byte, error) {
	bin := settings.Path
	if bin == "" {
		bin = "vyper"
	}

	return language.RunCompiler(ctx, bin, vyperArgs(srcPath, settings))
}

func compileCheck(ctx context.Context, source string, settings language.CompilerSettings) (bool, error) {
	tmp, err := os.CreateTemp("", "solmutate-validate-*.vy")
	if err != nil {
		return false, fmt.Errorf("vyper: create validation temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(source); err != nil {
		return false, fmt.Errorf("vyper: write validation temp file: %w", err)
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
	return fmt.Sprintf(`{"ast_type":"UnaryOp","op":"not","operand":%s}`, raw)
}

func mutators() []mutation.Mutator[visitor.NodeRef] {
	arithmetic := []string{"+", "-", "*", "/", "%", "**"}
	bitshift := [2]string{"<<", ">>"}
	bitwise := []string{"&", "|", "^"}
	comparison := []string{"<", "<=", ">", ">=", "==", "!="}
	logical := [2]string{"and", "or"}
	unary := []string{"-", "not", "~"}

	literals := map[string]func(r *rng.Source) string{
		"Int":          func(r *rng.Source) string { return intLiteral(r) },
		"NameConstant": func(r *rng.Source) string { return boolLiteral(r) },
		"Str":          func(r *rng.Source) string { return `{"ast_type":"Str","value":"mutated"}` },
	}

	ms := []mutation.Mutator[visitor.NodeRef]{
		common.NewBinaryOpMutator(mutation.ArithmeticBinaryOp, kindField, "BinOp", "op", arithmetic),
		common.NewSwapPairMutator(mutation.BitshiftBinaryOp, kindField, "BinOp", "op", bitshift),
		common.NewBinaryOpMutator(mutation.BitwiseBinaryOp, kindField, "BinOp", "op", bitwise),
		common.NewBinaryOpMutator(mutation.ComparisonBinaryOp, kindField, "Compare", "op", comparison),
		common.NewSwapPairMutator(mutation.LogicalBinaryOp, kindField, "BoolOp", "op", logical),
		common.NewUnaryOpMutator(kindField, "UnaryOp", "op", unary),
		common.NewAssignmentMutator(kindField, "AnnAssign", "value", kindField, literals),
		common.NewIntegerMutator(kindField, "Int", "value", integerGen),
		common.NewFunctionCallMutator(kindField, "Call", "args"),
		common.NewSwapFunctionArgumentsMutator(kindField, "Call", "args"),
		common.NewIfStatementMutator(kindField, "If", "test", negateExpr),
		common.NewDeleteStatementMutator(kindField, []string{
			"Expr", "AnnAssign", "Assign", "Return", "If",
		}),
		common.NewLinesSwapMutator(kindField, "FunctionDef", "body"),
		newSwapOperatorArgumentsMutator(),
	}

	return ms
}

func boolLiteral(r *rng.Source) string {
	v := "false"
	if r.Intn(2) == 1 {
		v = "true"
	}

	return fmt.Sprintf(`{"ast_type":"NameConstant","value":%q}`, v)
}

func intLiteral(r *rng.Source) string {
	v := r.Intn(1 << 16)

	return fmt.Sprintf(`{"ast_type":"Int","value":%d}`, v)
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
	registerVyperPrinters(f)
}
