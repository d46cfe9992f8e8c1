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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/go-gremlins/solmutate/cmd/internal/flags"
	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/execution"
	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/recognizer"
)

type prettyPrintCmd struct {
	cmd *cobra.Command
}

const (
	prettyPrintCommandName = "pretty-print"

	paramPrettyPrintOutput = "output"
)

// newPrettyPrintCmd builds the `pretty-print` subcommand (spec §6.1): it
// exercises the PrettyPrinter/NodePrinter stack independently of mutation,
// which is Testable Property #2 (idempotent pretty-print) made runnable
// from the CLI.
func newPrettyPrintCmd(ctx context.Context, registry *language.Registry) *prettyPrintCmd {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [file]", prettyPrintCommandName),
		Args:  cobra.ExactArgs(1),
		Short: "Pretty-print a source or AST file without mutating it",
		Long: heredoc.Doc(`
			Loads a source or already-compiled AST file, recognizes its language,
			and renders it back to formatted source text, exactly as the
			mutation generator would before writing a mutant.
		`),
		RunE: runPrettyPrint(ctx, registry),
	}

	flag := &flags.Flag{Name: paramPrettyPrintOutput, CfgKey: configuration.PrettyPrintOutputKey, Shorthand: "o", DefaultV: "", Usage: "write the rendered source here instead of stdout"}
	_ = flags.Set(cmd, flag)

	return &prettyPrintCmd{cmd: cmd}
}

func runPrettyPrint(ctx context.Context, registry *language.Registry) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path := args[0]

		rec, err := recognizer.New(registry).Recognize(path)
		if err != nil {
			return execution.NewExitErrf(execution.UnrecognizedInputFile, err.Error())
		}
		l := rec.Language

		if rec.Kind != recognizer.AST {
			n, serr := l.SourceToAST(ctx, rec.Path, l.DefaultCompilerSettings())
			if serr != nil {
				return execution.NewExitErrf(execution.CompilerErr, serr.Error())
			}

			source, perr := l.PrettyPrint(n)
			if perr != nil {
				return execution.NewExitErrf(execution.UnsupportedNodeKind, perr.Error())
			}

			return writePrettyPrinted(source)
		}

		//nolint:gosec // path is a user-supplied CLI argument
		raw, rerr := os.ReadFile(rec.Path)
		if rerr != nil {
			return execution.NewExitErrf(execution.IoErr, rerr.Error())
		}

		n, lerr := l.LoadAST(raw)
		if lerr != nil {
			return execution.NewExitErrf(execution.MalformedAst, lerr.Error())
		}

		source, perr := l.PrettyPrint(n)
		if perr != nil {
			return execution.NewExitErrf(execution.UnsupportedNodeKind, perr.Error())
		}

		return writePrettyPrinted(source)
	}
}

func writePrettyPrinted(source string) error {
	output := configuration.Get[string](configuration.PrettyPrintOutputKey)
	if output == "" {
		fmt.Fprintln(os.Stdout, source) //nolint:forbidigo // stdout is the documented default sink

		return nil
	}

	if err := os.WriteFile(output, []byte(source), 0o644); err != nil { //nolint:gosec
		return execution.NewExitErrf(execution.IoErr, err.Error())
	}

	return nil
}
