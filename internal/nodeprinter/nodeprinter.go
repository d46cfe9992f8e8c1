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

// Package nodeprinter implements NodePrinter/NodePrinterFactory (spec
// §4.2): dispatch, keyed by node-kind string, from an AST node to the
// printer able to serialize it via internal/pp. The node-kind set for a
// JSON AST is open-ended (unknown kinds must still round-trip, per the
// "registry when it is open-ended" guidance in spec §9), so dispatch is a
// runtime registry rather than an exhaustive switch.
package nodeprinter

import (
	"fmt"

	"github.com/go-gremlins/solmutate/internal/pp"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// Printer renders one node kind to the PrettyPrinter. Printers are pure:
// they never mutate the AST (spec §4.2).
type Printer interface {
	Print(n visitor.NodeRef, out *pp.Printer, factory *Factory) error
}

// PrinterFunc adapts a plain function to the Printer interface.
type PrinterFunc func(n visitor.NodeRef, out *pp.Printer, factory *Factory) error

// Print implements Printer.
func (f PrinterFunc) Print(n visitor.NodeRef, out *pp.Printer, factory *Factory) error {
	return f(n, out, factory)
}

// ErrUnsupportedNodeKind is produced when a node kind has no registered
// Printer and no fallback applies (spec §4.2, §7 UnsupportedNodeKind).
type ErrUnsupportedNodeKind struct {
	Kind string
}

func (e *ErrUnsupportedNodeKind) Error() string {
	return fmt.Sprintf("nodeprinter: unsupported node kind %q", e.Kind)
}

// Factory dispatches a node to its Printer by kind string. A per-language
// Fallback, when set, handles any kind absent from the registry instead of
// failing (used by JSON ASTs to pass unknown node kinds through unchanged).
type Factory struct {
	Traits   visitor.Traits
	byKind   map[string]Printer
	Fallback Printer
}

// NewFactory builds an empty Factory bound to one language's Traits (needed
// to resolve a node's kind via Namer).
func NewFactory(traits visitor.Traits) *Factory {
	return &Factory{Traits: traits, byKind: make(map[string]Printer)}
}

// Register binds a Printer to a node-kind symbol.
func (f *Factory) Register(kind string, p Printer) {
	f.byKind[kind] = p
}

// PrinterFor resolves the Printer for n, falling back to Fallback, then
// failing with ErrUnsupportedNodeKind.
func (f *Factory) PrinterFor(n visitor.NodeRef) (Printer, error) {
	kind := f.Traits.Name(n)
	if p, ok := f.byKind[kind]; ok {
		return p, nil
	}
	if f.Fallback != nil {
		return f.Fallback, nil
	}

	return nil, &ErrUnsupportedNodeKind{Kind: kind}
}

// Print resolves and invokes the Printer for n.
func (f *Factory) Print(n visitor.NodeRef, out *pp.Printer) error {
	p, err := f.PrinterFor(n)
	if err != nil {
		return err
	}

	return p.Print(n, out, f)
}
