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

package vyper_test

import (
	"strings"
	"testing"

	"github.com/go-gremlins/solmutate/internal/astx"
	"github.com/go-gremlins/solmutate/internal/language/vyper"
	"github.com/go-gremlins/solmutate/internal/mutation"
	"github.com/go-gremlins/solmutate/internal/rng"
)

// compiledShapeFixture mimics the real `vyper -f ast` output shape: BinOp's
// op is a nested node and Compare spreads its rhs across ops/comparators -
// neither hand-flattened the way the rest of this package's fixtures are.
const compiledShapeFixture = `{
  "node_id": 1, "ast_type": "Module", "body": [
    {"node_id": 2, "ast_type": "FunctionDef", "name": "transfer", "body": [
      {"node_id": 3, "ast_type": "If",
        "test": {"node_id": 4, "ast_type": "Compare",
          "left": {"node_id": 5, "ast_type": "Name", "id": "a"},
          "ops": [{"ast_type": "Lt"}],
          "comparators": [{"node_id": 6, "ast_type": "Int", "value": 1}]
        },
        "body": [
          {"node_id": 7, "ast_type": "Expr", "value":
            {"node_id": 8, "ast_type": "BinOp",
              "left": {"node_id": 9, "ast_type": "Name", "id": "a"},
              "op": {"ast_type": "Add"},
              "right": {"node_id": 10, "ast_type": "Int", "value": 1}
            }
          }
        ],
        "orelse": []
      }
    ]}
  ]
}`

func TestLoadASTFindsSitesOnCompiledBinOpAndCompareShape(t *testing.T) {
	l := vyper.New()
	root, err := l.LoadAST([]byte(compiledShapeFixture))
	if err != nil {
		t.Fatalf("load ast: %v", err)
	}

	counts, err := l.CountMutableNodes(root,
		[]mutation.Tag{mutation.ArithmeticBinaryOp, mutation.ComparisonBinaryOp}, astx.Permissions{})
	if err != nil {
		t.Fatalf("count mutable nodes: %v", err)
	}
	if n := len(counts[mutation.ArithmeticBinaryOp]); n != 1 {
		t.Errorf("want 1 ArithmeticBinaryOp site against the compiled-shape BinOp, got %d", n)
	}
	if n := len(counts[mutation.ComparisonBinaryOp]); n != 1 {
		t.Errorf("want 1 ComparisonBinaryOp site against the flattened single-comparison Compare, got %d", n)
	}
}

func TestMutateActuallyChangesTheFlattenedCompiledBinOp(t *testing.T) {
	l := vyper.New()
	root, err := l.LoadAST([]byte(compiledShapeFixture))
	if err != nil {
		t.Fatalf("load ast: %v", err)
	}

	counts, err := l.CountMutableNodes(root, []mutation.Tag{mutation.ArithmeticBinaryOp}, astx.Permissions{})
	if err != nil {
		t.Fatalf("count mutable nodes: %v", err)
	}
	paths := counts[mutation.ArithmeticBinaryOp]
	if len(paths) != 1 {
		t.Fatalf("want 1 ArithmeticBinaryOp site, got %d", len(paths))
	}

	site := mutation.Site{Path: paths[0], Algorithm: mutation.ArithmeticBinaryOp}
	mutated, err := l.Mutate(root, site, rng.New(1))
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	out, err := l.PrettyPrint(mutated.Root())
	if err != nil {
		t.Fatalf("pretty-print: %v", err)
	}
	if strings.Contains(out, "a + 1") {
		t.Errorf("expected the flattened '+' to have been mutated away, got:\n%s", out)
	}
}
