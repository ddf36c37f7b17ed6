// Copyright 2019-2025 The Liqo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd contains the cidr-findr commands.
package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/spf13/cobra"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/klog/v2"

	"github.com/liqotech/cidr-findr/pkg/findrctl/allocate"
	"github.com/liqotech/cidr-findr/pkg/findrctl/output"
)

const cidrFindrLongHelp = `cidr-findr finds the next free CIDR blocks inside one or more IPv4 networks.

Each requested block is aligned to its own size and never overlaps the subnets
already in use, nor the blocks allocated before it in the same invocation.
Networks are filled in the order they are given: a block is placed in a later
network only if it does not fit in the previous ones.

The allocation is all-or-nothing: if any of the requested sizes does not fit,
no CIDR is printed and the command fails.
`

// NewRootCommand returns the cidr-findr root command.
func NewRootCommand(ctx context.Context) *cobra.Command {
	options := allocate.NewOptions(nil)
	var verbose bool

	// rootCmd represents the base command when called without any subcommands.
	var rootCmd = &cobra.Command{
		Use:          "cidr-findr",
		Short:        "Find the next free CIDR blocks inside IPv4 networks",
		Long:         cidrFindrLongHelp,
		SilenceUsage: true,

		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			options.Printer = output.NewPrinter(verbose)
		},
	}

	flagset := flag.NewFlagSet("klog", flag.PanicOnError)
	klog.InitFlags(flagset)
	rootCmd.PersistentFlags().AddGoFlagSet(flagset)

	rootCmd.PersistentFlags().StringVar(&options.ConfigFile, "config", "",
		"Path to a YAML configuration file. Values given through flags take precedence")
	rootCmd.PersistentFlags().StringVarP(&options.OutputFormat, "output", "o", string(allocate.TextFormat),
		fmt.Sprintf("Output format. Supported formats: %s, %s, %s", allocate.TextFormat, allocate.JSONFormat, allocate.YAMLFormat))
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print the allocated blocks on the standard error as well")

	utilruntime.Must(rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{string(allocate.TextFormat), string(allocate.JSONFormat), string(allocate.YAMLFormat)},
		cobra.ShellCompDirectiveNoFileComp)))

	rootCmd.AddCommand(newFindCommand(ctx, options))
	rootCmd.AddCommand(newVPCCommand(ctx, options))
	rootCmd.AddCommand(newDocsCommand(ctx))
	return rootCmd
}
