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

const vpcLongHelp = `Find the next free CIDR blocks inside an AWS VPC.

The CIDR blocks associated with the VPC are used as networks, the primary one
first, and the subnets of the VPC are considered in use. Additional subnets
can be reserved through the --subnet flag.

The AWS credentials are retrieved from the standard locations (environment
variables, shared credentials file, instance role).

Examples:
  $ cidr-findr vpc --vpc-id vpc-0a1b2c3d --region eu-west-1 --sizes 20,20
or, reserving an additional subnet
  $ cidr-findr vpc --vpc-id vpc-0a1b2c3d --subnet 10.0.64.0/18 --sizes 24
`

func newVPCCommand(ctx context.Context, options *allocate.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vpc",
		Short: "Find the next free CIDR blocks inside an AWS VPC",
		Long:  vpcLongHelp,
		Args:  cobra.NoArgs,

		Run: func(_ *cobra.Command, _ []string) {
			options.Printer.CheckErr(options.Complete())
			options.Printer.CheckErr(options.RunVPC(ctx))
		},
	}

	cmd.Flags().StringVar(&options.VpcID, "vpc-id", "", "The ID of the VPC the blocks are allocated from")
	cmd.Flags().StringVar(&options.Region, "region", "", "The AWS region of the VPC (defaults to the one of the AWS configuration)")
	cmd.Flags().Var(&options.Subnets, "subnet", "Additional subnets to consider in use")
	cmd.Flags().Var(&options.Sizes, "sizes", "The prefix lengths of the blocks to allocate (e.g. 24,/25)")

	return cmd
}
