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

package recognizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/language/solidity"
	"github.com/go-gremlins/solmutate/internal/language/vyper"
	"github.com/go-gremlins/solmutate/internal/recognizer"
)

func newRegistry() *language.Registry {
	r := language.NewRegistry()
	r.Register(solidity.New())
	r.Register(vyper.New())

	return r
}

func TestRecognizeByExtension(t *testing.T) {
	t.Parallel()
	rec := recognizer.New(newRegistry())

	testCases := []struct {
		name     string
		path     string
		wantLang string
		wantKind recognizer.Kind
	}{
		{name: "solidity source", path: "Token.sol", wantLang: "solidity", wantKind: recognizer.Source},
		{name: "vyper source", path: "token.vy", wantLang: "vyper", wantKind: recognizer.Source},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := rec.Recognize(tc.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Language.Tag() != tc.wantLang {
				t.Errorf("want language %q, got %q", tc.wantLang, got.Language.Tag())
			}
			if got.Kind != tc.wantKind {
				t.Errorf("want kind %v, got %v", tc.wantKind, got.Kind)
			}
		})
	}
}

func TestRecognizeConfigFileRejected(t *testing.T) {
	t.Parallel()
	rec := recognizer.New(newRegistry())

	_, err := rec.Recognize("solmutate.mgnx")
	if err == nil {
		t.Fatal("expected an error for a .mgnx path")
	}
}

func TestRecognizeContentSniff(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "Token.ast")
	if err := os.WriteFile(path, []byte(`{"nodeType":"SourceUnit","nodes":[]}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec := recognizer.New(newRegistry())
	got, err := rec.Recognize(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Language.Tag() != "solidity" {
		t.Errorf("want solidity, got %q", got.Language.Tag())
	}
	if got.Kind != recognizer.AST {
		t.Errorf("want AST kind, got %v", got.Kind)
	}
}

func TestRecognizeUnrecognized(t *testing.T) {
	t.Parallel()
	rec := recognizer.New(newRegistry())

	_, err := rec.Recognize("README.md")
	if err == nil {
		t.Fatal("expected ErrUnrecognizedInputFile")
	}
}
