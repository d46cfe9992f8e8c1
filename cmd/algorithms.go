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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-gremlins/solmutate/cmd/internal/flags"
	"github.com/go-gremlins/solmutate/internal/configuration"
	"github.com/go-gremlins/solmutate/internal/mutation"
)

type algorithmsCmd struct {
	cmd *cobra.Command
}

const (
	algorithmsCommandName = "algorithms"

	paramList   = "list"
	paramDetail = "detail"
)

// newAlgorithmsCmd builds the `algorithms` subcommand (spec §6.3): -l prints
// one line per Tag (tag + summary), -d additionally prints the operator set
// and a worked example, both sourced from mutation.Catalog.
func newAlgorithmsCmd() *algorithmsCmd {
	cmd := &cobra.Command{
		Use:   algorithmsCommandName,
		Args:  cobra.NoArgs,
		Short: "List the available mutation algorithms",
		RunE:  runAlgorithms(),
	}

	fls := []*flags.Flag{
		{Name: paramList, CfgKey: configuration.AlgorithmsListKey, Shorthand: "l", DefaultV: false, Usage: "print tag and one-line summary"},
		{Name: paramDetail, CfgKey: configuration.AlgorithmsDetailKey, Shorthand: "d", DefaultV: false, Usage: "print tag, operator set and a worked example"},
	}
	for _, f := range fls {
		_ = flags.Set(cmd, f)
	}

	return &algorithmsCmd{cmd: cmd}
}

func runAlgorithms() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		detail := configuration.Get[bool](configuration.AlgorithmsDetailKey)

		for _, tag := range mutation.Tags {
			entry := mutation.Catalog[tag]
			if !detail {
				fmt.Fprintf(os.Stdout, "%-24s %s\n", tag, entry.Summary) //nolint:forbidigo // algorithms listing is the documented output

				continue
			}

			fmt.Fprintf(os.Stdout, "%-24s %s\n", tag, entry.Summary) //nolint:forbidigo
			if len(entry.Operators) > 0 {
				fmt.Fprintf(os.Stdout, "  operators: %s\n", strings.Join(entry.Operators, " ")) //nolint:forbidigo
			}
			fmt.Fprintf(os.Stdout, "  example:   %s\n", entry.Example) //nolint:forbidigo
		}

		return nil
	}
}
