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

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/liqotech/cidr-findr/pkg/findrctl/allocate"
)

const findLongHelp = `Find the next free CIDR blocks inside the given networks.

The --subnet flag lists the subnets already in use: each of them must belong
to one of the networks. The --sizes flag lists the prefix lengths of the blocks
to allocate, in order. Each size can be written either as 24 or as /24.

Examples:
  $ cidr-findr find --network 10.0.0.0/16 --subnet 10.0.0.0/24 --sizes 24,25
or, spreading the allocation over two networks
  $ cidr-findr find --network 10.0.0.0/24,10.1.0.0/16 --sizes 24,24
or, reading the parameters from a configuration file
  $ cidr-findr find --config layout.yaml -o json
`

func newFindCommand(ctx context.Context, options *allocate.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find the next free CIDR blocks inside the given networks",
		Long:  findLongHelp,
		Args:  cobra.NoArgs,

		Run: func(_ *cobra.Command, _ []string) {
			options.Printer.CheckErr(options.Complete())
			options.Printer.CheckErr(options.RunFind(ctx))
		},
	}

	cmd.Flags().Var(&options.Networks, "network", "The networks the blocks are allocated from, in order of preference")
	cmd.Flags().Var(&options.Subnets, "subnet", "The subnets already in use inside the networks")
	cmd.Flags().Var(&options.Sizes, "sizes", "The prefix lengths of the blocks to allocate (e.g. 24,/25)")

	return cmd
}
