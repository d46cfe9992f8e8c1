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
	"errors"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/go-gremlins/solmutate/cmd/internal/flags"
	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/language"
	"github.com/go-gremlins/solmutate/internal/language/solidity"
	"github.com/go-gremlins/solmutate/internal/language/vyper"
	"github.com/go-gremlins/solmutate/internal/log"
)

const paramConfigFile = "config"

// Execute initialises a new Cobra root command (solmutate) with a custom
// version string used in the `-v` flag results.
func Execute(ctx context.Context, version string) error {
	rootCmd, err := newRootCmd(ctx, version)
	if err != nil {
		return err
	}

	return rootCmd.execute()
}

type solmutateCmd struct {
	cmd *cobra.Command
}

func (sc solmutateCmd) execute() error {
	var cfgFile string
	cobra.OnInitialize(func() {
		err := configuration.Init([]string{cfgFile})
		if err != nil {
			log.Errorf("initialization error: %s\n", err)
			os.Exit(1)
		}
	})
	sc.cmd.PersistentFlags().StringVar(&cfgFile, paramConfigFile, "", "override config file")

	return sc.cmd.Execute()
}

// newLanguageRegistry wires every supported language binding. It is the one
// place a new language is added to the CLI.
func newLanguageRegistry() *language.Registry {
	registry := language.NewRegistry()
	registry.Register(solidity.New())
	registry.Register(vyper.New())

	return registry
}

func newRootCmd(ctx context.Context, version string) (*solmutateCmd, error) {
	if version == "" {
		return nil, errors.New("expected a version string")
	}

	cmd := &cobra.Command{
		Hidden:        true,
		SilenceUsage:  true,
		SilenceErrors: true,
		Use:           "solmutate",
		Short:         shortExplainer(),
		Version:       version,
	}

	registry := newLanguageRegistry()

	mc, err := newMutateCmd(ctx, registry)
	if err != nil {
		return nil, err
	}
	cmd.AddCommand(mc.cmd)
	cmd.AddCommand(newAlgorithmsCmd().cmd)
	cmd.AddCommand(newPrettyPrintCmd(ctx, registry).cmd)

	flag := &flags.Flag{Name: "silent", CfgKey: configuration.SolmutateSilentKey, Shorthand: "s", DefaultV: false, Usage: "suppress output and run in silent mode"}
	if err := flags.SetPersistent(cmd, flag); err != nil {
		return nil, err
	}

	return &solmutateCmd{
		cmd: cmd,
	}, nil
}

func shortExplainer() string {
	return heredoc.Doc(`
		solmutate generates mutants for Solidity and Vyper smart contracts by
		rewriting their AST in semantics-altering but syntactically valid ways.
	`)
}
