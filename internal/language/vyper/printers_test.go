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

	"github.com/go-gremlins/solmutate/internal/language/vyper"
)

const printerFixture = `{
  "node_id": 1, "ast_type": "Module", "body": [
    {"node_id": 2, "ast_type": "FunctionDef", "name": "transfer", "body": [
      {"node_id": 3, "ast_type": "If",
        "test": {"node_id": 4, "ast_type": "Compare", "op": "==",
          "left": {"node_id": 5, "ast_type": "Name", "id": "a"},
          "right": {"node_id": 6, "ast_type": "Int", "value": 1}
        },
        "body": [
          {"node_id": 7, "ast_type": "Expr", "value":
            {"node_id": 8, "ast_type": "Call",
              "func": {"node_id": 9, "ast_type": "Attribute", "attr": "transfer",
                "value": {"node_id": 10, "ast_type": "Name", "id": "target"}},
              "args": [{"node_id": 11, "ast_type": "Str", "value": "hi"}]
            }
          }
        ],
        "orelse": [
          {"node_id": 12, "ast_type": "Return", "value":
            {"node_id": 13, "ast_type": "UnaryOp", "op": "not",
              "operand": {"node_id": 14, "ast_type": "NameConstant", "value": "true"}}
          }
        ]
      }
    ]}
  ]
}`

func TestPrettyPrintRendersVyperConstructs(t *testing.T) {
	l := vyper.New()
	root, err := l.LoadAST([]byte(printerFixture))
	if err != nil {
		t.Fatalf("load ast: %v", err)
	}

	out, err := l.PrettyPrint(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"def transfer():", "if a == 1:", "target.transfer(\"hi\")",
		"else:", "return not true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrettyPrintFallsBackForUnsupportedKind(t *testing.T) {
	l := vyper.New()
	root, err := l.LoadAST([]byte(`{"node_id": 1, "ast_type": "TotallyUnknownKind"}`))
	if err != nil {
		t.Fatalf("load ast: %v", err)
	}

	out, err := l.PrettyPrint(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "unsupported node") {
		t.Errorf("expected the fallback printer output, got %q", out)
	}
}
