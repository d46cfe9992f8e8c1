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

package nodeprinter_test

import (
	"errors"
	"testing"

	"github.com/go-gremlins/solmutate/internal/astjson"
	"github.com/go-gremlins/solmutate/internal/language/solidity"
	"github.com/go-gremlins/solmutate/internal/nodeprinter"
	"github.com/go-gremlins/solmutate/internal/pp"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

func TestFactoryDispatchesByKind(t *testing.T) {
	traits := solidity.New()
	factory := nodeprinter.NewFactory(traits)

	called := false
	factory.Register("Literal", nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		called = true
		out.Token(n.Result().Get("value").String())

		return nil
	}))

	tree, err := astjson.Parse([]byte(`{"id": 1, "nodeType": "Literal", "value": "42"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := visitor.NodeRef{Tree: tree, Path: ""}

	out := pp.New()
	if err := factory.Print(root, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected the registered printer to be invoked")
	}
	if out.String() != "42" {
		t.Errorf("want 42, got %q", out.String())
	}
}

func TestFactoryUnsupportedKind(t *testing.T) {
	traits := solidity.New()
	factory := nodeprinter.NewFactory(traits)

	tree, _ := astjson.Parse([]byte(`{"id": 1, "nodeType": "TotallyUnknownKind"}`))
	root := visitor.NodeRef{Tree: tree, Path: ""}

	_, err := factory.PrinterFor(root)

	var unsupported *nodeprinter.ErrUnsupportedNodeKind
	if !errors.As(err, &unsupported) {
		t.Fatalf("want ErrUnsupportedNodeKind, got %v", err)
	}
	if unsupported.Kind != "TotallyUnknownKind" {
		t.Errorf("want kind TotallyUnknownKind, got %q", unsupported.Kind)
	}
}

func TestFactoryFallback(t *testing.T) {
	traits := solidity.New()
	factory := nodeprinter.NewFactory(traits)
	factory.Fallback = nodeprinter.PrinterFunc(func(n visitor.NodeRef, out *pp.Printer, _ *nodeprinter.Factory) error {
		out.Token("fallback")

		return nil
	})

	tree, _ := astjson.Parse([]byte(`{"id": 1, "nodeType": "TotallyUnknownKind"}`))
	root := visitor.NodeRef{Tree: tree, Path: ""}

	out := pp.New()
	if err := factory.Print(root, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "fallback" {
		t.Errorf("want fallback, got %q", out.String())
	}
}

func TestPrettyPrintVisitorPropagatesPrinterErrors(t *testing.T) {
	traits := solidity.New()
	factory := nodeprinter.NewFactory(traits)

	tree, _ := astjson.Parse([]byte(`{"id": 1, "nodeType": "TotallyUnknownKind"}`))
	root := visitor.NodeRef{Tree: tree, Path: ""}

	v := nodeprinter.NewPrettyPrintVisitor(factory)
	if _, err := v.Print(root); err == nil {
		t.Fatal("expected an error for an unregistered node kind with no fallback")
	}
}
