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

	"github.com/go-gremlins/solmutate/internal/nodeprinter"
	"github.com/go-gremlins/solmutate/internal/pp"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

func child(n visitor.NodeRef, field string) visitor.NodeRef {
	return visitor.NodeRef{Tree: n.Tree, Path: joinChildPath(n.Path, field)}
}

func childAt(n visitor.NodeRef, field string, i int) visitor.NodeRef {
	return visitor.NodeRef{Tree: n.Tree, Path: fmt.Sprintf("%s.%d", joinChildPath(n.Path, field), i)}
}

func joinChildPath(base, field string) string {
	if base == "" {
		return field
	}

	return base + "." + field
}

func registerSolidityPrinters(f *nodeprinter.Factory) {
	f.Fallback = nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token("/* unsupported node */")

		return nil
	})

	f.Register("SourceUnit", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		nodes := n.Result().Get("nodes").Array()
		for i := range nodes {
			if err := fac.Print(childAt(n, "nodes", i), out); err != nil {
				return err
			}
			out.HardBreak()
		}

		return nil
	}))

	f.Register("ContractDefinition", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("contract ").Token(n.Result().Get("name").String()).Space().Token("{").SoftBreak()
		out.Indent()
		nodes := n.Result().Get("nodes").Array()
		for i := range nodes {
			if err := fac.Print(childAt(n, "nodes", i), out); err != nil {
				return err
			}
			out.SoftBreak()
		}
		out.Dedent()
		out.Token("}")

		return nil
	}))

	f.Register("FunctionDefinition", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("function ").Token(n.Result().Get("name").String()).Token("() ")
		if n.Result().Get("body").Exists() {
			return fac.Print(child(n, "body"), out)
		}
		out.Token(";")

		return nil
	}))

	f.Register("Block", blockPrinter("statements"))
	f.Register("UncheckedBlock", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("unchecked ")

		return blockPrinterFunc("statements")(n, out, fac)
	}))

	f.Register("ExpressionStatement", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "expression"), out); err != nil {
			return err
		}
		out.Token(";")

		return nil
	}))

	f.Register("Return", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("return ")
		if n.Result().Get("expression").Exists() {
			if err := fac.Print(child(n, "expression"), out); err != nil {
				return err
			}
		}
		out.Token(";")

		return nil
	}))

	f.Register("IfStatement", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("if (")
		if err := fac.Print(child(n, "condition"), out); err != nil {
			return err
		}
		out.Token(") ")
		if err := fac.Print(child(n, "trueBody"), out); err != nil {
			return err
		}
		if n.Result().Get("falseBody").Exists() {
			out.Token(" else ")

			return fac.Print(child(n, "falseBody"), out)
		}

		return nil
	}))

	f.Register("Assignment", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "leftHandSide"), out); err != nil {
			return err
		}
		out.Space().Token(n.Result().Get("operator").String()).Space()

		return fac.Print(child(n, "rightHandSide"), out)
	}))

	f.Register("BinaryOperation", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "leftExpression"), out); err != nil {
			return err
		}
		out.Space().Token(n.Result().Get("operator").String()).Space()

		return fac.Print(child(n, "rightExpression"), out)
	}))

	f.Register("UnaryOperation", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		op := n.Result().Get("operator").String()
		if n.Result().Get("prefix").Bool() {
			out.Token(op)

			return fac.Print(child(n, "subExpression"), out)
		}
		if err := fac.Print(child(n, "subExpression"), out); err != nil {
			return err
		}
		out.Token(op)

		return nil
	}))

	f.Register("FunctionCall", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "expression"), out); err != nil {
			return err
		}
		out.Token("(")
		args := n.Result().Get("arguments").Array()
		for i := range args {
			if i > 0 {
				out.Token(", ")
			}
			if err := fac.Print(childAt(n, "arguments", i), out); err != nil {
				return err
			}
		}
		out.Token(")")

		return nil
	}))

	f.Register("MemberAccess", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "expression"), out); err != nil {
			return err
		}
		out.Token(".").Token(n.Result().Get("memberName").String())

		return nil
	}))

	f.Register("Identifier", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token(n.Result().Get("name").String())

		return nil
	}))

	f.Register("Literal", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		if n.Result().Get("kind").String() == "string" {
			out.StringLiteral(n.Result().Get("value").String())

			return nil
		}
		out.Token(n.Result().Get("value").String())

		return nil
	}))

	f.Register("__Comment__", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token("// ").Token(n.Result().Get("text").String()).SoftBreak()

		return nil
	}))
}

func blockPrinter(stmtsField string) nodeprinter.Printer {
	return nodeprinter.PrinterFunc(blockPrinterFunc(stmtsField))
}

func blockPrinterFunc(stmtsField string) func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
	return func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("{").SoftBreak()
		out.Indent()
		stmts := n.Result().Get(stmtsField).Array()
		for i := range stmts {
			if err := fac.Print(childAt(n, stmtsField, i), out); err != nil {
				return err
			}
			out.SoftBreak()
		}
		out.Dedent()
		out.Token("}")

		return nil
	}
}
