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

package nodeprinter

import (
	"github.com/go-gremlins/solmutate/internal/pp"
	"github.com/go-gremlins/solmutate/internal/visitor"
)

// PrettyPrintVisitor drives a full pretty-print from a single root node.
// Unlike the read-only/mutating visitors in internal/visitor, it does not
// use ASTTraverser: printers recurse into children in the print order they
// choose (which may differ from traversal order, e.g. operator nodes
// printing their operands around an infix token), so it is invoked only
// once, at the root (spec §4.4).
type PrettyPrintVisitor struct {
	Factory *Factory
}

// NewPrettyPrintVisitor binds a PrettyPrintVisitor to one language's
// printer Factory.
func NewPrettyPrintVisitor(factory *Factory) *PrettyPrintVisitor {
	return &PrettyPrintVisitor{Factory: factory}
}

// Print renders root to formatted source text.
func (v *PrettyPrintVisitor) Print(root visitor.NodeRef) (string, error) {
	out := pp.New()
	if err := v.Factory.Print(root, out); err != nil {
		return "", err
	}

	return out.String(), nil
}
