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

func registerVyperPrinters(f *nodeprinter.Factory) {
	f.Fallback = nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token("# unsupported node")

		return nil
	})

	f.Register("Module", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		body := n.Result().Get("body").Array()
		for i := range body {
			if err := fac.Print(childAt(n, "body", i), out); err != nil {
				return err
			}
			out.HardBreak()
		}

		return nil
	}))

	f.Register("FunctionDef", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("def ").Token(n.Result().Get("name").String()).Token("():").SoftBreak()
		out.Indent()
		body := n.Result().Get("body").Array()
		for i := range body {
			if err := fac.Print(childAt(n, "body", i), out); err != nil {
				return err
			}
			out.SoftBreak()
		}
		out.Dedent()

		return nil
	}))

	f.Register("If", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("if ")
		if err := fac.Print(child(n, "test"), out); err != nil {
			return err
		}
		out.Token(":").SoftBreak()
		out.Indent()
		body := n.Result().Get("body").Array()
		for i := range body {
			if err := fac.Print(childAt(n, "body", i), out); err != nil {
				return err
			}
			out.SoftBreak()
		}
		out.Dedent()

		orelse := n.Result().Get("orelse").Array()
		if len(orelse) > 0 {
			out.Token("else:").SoftBreak()
			out.Indent()
			for i := range orelse {
				if err := fac.Print(childAt(n, "orelse", i), out); err != nil {
					return err
				}
				out.SoftBreak()
			}
			out.Dedent()
		}

		return nil
	}))

	f.Register("Expr", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		return fac.Print(child(n, "value"), out)
	}))

	f.Register("Return", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		out.Token("return")
		if n.Result().Get("value").Exists() {
			out.Space()

			return fac.Print(child(n, "value"), out)
		}

		return nil
	}))

	f.Register("Assign", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "target"), out); err != nil {
			return err
		}
		out.Token(" = ")

		return fac.Print(child(n, "value"), out)
	}))

	f.Register("AnnAssign", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "target"), out); err != nil {
			return err
		}
		out.Token(": ")
		if err := fac.Print(child(n, "annotation"), out); err != nil {
			return err
		}
		out.Token(" = ")

		return fac.Print(child(n, "value"), out)
	}))

	f.Register("BinOp", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "left"), out); err != nil {
			return err
		}
		out.Space().Token(n.Result().Get("op").String()).Space()

		return fac.Print(child(n, "right"), out)
	}))

	f.Register("BoolOp", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "left"), out); err != nil {
			return err
		}
		out.Space().Token(n.Result().Get("op").String()).Space()

		return fac.Print(child(n, "right"), out)
	}))

	f.Register("Compare", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "left"), out); err != nil {
			return err
		}
		out.Space().Token(n.Result().Get("op").String()).Space()

		return fac.Print(child(n, "right"), out)
	}))

	f.Register("UnaryOp", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		op := n.Result().Get("op").String()
		out.Token(op).Space()

		return fac.Print(child(n, "operand"), out)
	}))

	f.Register("Call", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "func"), out); err != nil {
			return err
		}
		out.Token("(")
		args := n.Result().Get("args").Array()
		for i := range args {
			if i > 0 {
				out.Token(", ")
			}
			if err := fac.Print(childAt(n, "args", i), out); err != nil {
				return err
			}
		}
		out.Token(")")

		return nil
	}))

	f.Register("Attribute", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, fac *nodeprinter.Factory) error {
		if err := fac.Print(child(n, "value"), out); err != nil {
			return err
		}
		out.Token(".").Token(n.Result().Get("attr").String())

		return nil
	}))

	f.Register("Name", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token(n.Result().Get("id").String())

		return nil
	}))

	f.Register("Int", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token(n.Result().Get("value").String())

		return nil
	}))

	f.Register("NameConstant", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token(n.Result().Get("value").String())

		return nil
	}))

	f.Register("Str", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.StringLiteral(n.Result().Get("value").String())

		return nil
	}))

	f.Register("__Comment__", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token("# ").Token(n.Result().Get("text").String()).SoftBreak()

		return nil
	}))
}
