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

// Package awsvpc retrieves the address layout of an AWS VPC, i.e. its IPv4 CIDR blocks
// and the subnets already carved out of them, so that new subnets can be allocated.
package awsvpc

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/liqotech/cidr-findr/pkg/cidrfindr"
)

// Layout is the address layout of a VPC.
type Layout struct {
	VpcID string `json:"vpcId"`
	// Networks are the IPv4 CIDR blocks of the VPC, the primary one first.
	Networks []string `json:"networks"`
	// Subnets are the IPv4 CIDR blocks of the existing subnets of the VPC.
	Subnets []string `json:"subnets"`
}

// NewCidrFindr returns a CidrFindr allocating subnets in the VPC.
func (l *Layout) NewCidrFindr() (*cidrfindr.CidrFindr, error) {
	findr, err := cidrfindr.New(l.Networks, l.Subnets)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid layout of VPC %s", l.VpcID)
	}
	return findr, nil
}

// Discoverer retrieves VPC layouts through the EC2 APIs.
type Discoverer struct {
	client ec2iface.EC2API
}

// NewDiscoverer returns a Discoverer for the given region. An empty region
// falls back to the one configured in the environment of the AWS SDK.
func NewDiscoverer(region string) (*Discoverer, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, errors.Wrap(err, "failed connecting to the AWS APIs")
	}

	cfg := aws.NewConfig()
	if region != "" {
		cfg = cfg.WithRegion(region)
	}

	return NewDiscovererForClient(ec2.New(sess, cfg)), nil
}

// NewDiscovererForClient returns a Discoverer using the given EC2 client.
func NewDiscovererForClient(client ec2iface.EC2API) *Discoverer {
	return &Discoverer{client: client}
}

// Discover returns the layout of the given VPC.
func (d *Discoverer) Discover(ctx context.Context, vpcID string) (*Layout, error) {
	layout := &Layout{VpcID: vpcID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		networks, err := d.networks(gctx, vpcID)
		layout.Networks = networks
		return err
	})
	g.Go(func() error {
		subnets, err := d.subnets(gctx, vpcID)
		layout.Subnets = subnets
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	klog.V(2).Infof("VPC %s: %d networks, %d subnets", vpcID, len(layout.Networks), len(layout.Subnets))
	return layout, nil
}

func (d *Discoverer) networks(ctx context.Context, vpcID string) ([]string, error) {
	output, err := d.client.DescribeVpcsWithContext(ctx, &ec2.DescribeVpcsInput{
		VpcIds: aws.StringSlice([]string{vpcID}),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to get VPC %s details", vpcID)
	}
	if len(output.Vpcs) != 1 {
		return nil, errors.Errorf("expected exactly one VPC with ID %s, found %d", vpcID, len(output.Vpcs))
	}

	return parseVpcOutput(output.Vpcs[0]), nil
}

// parseVpcOutput returns the primary CIDR block of the VPC, followed by the additional
// blocks currently associated to it.
func parseVpcOutput(vpc *ec2.Vpc) []string {
	primary := aws.StringValue(vpc.CidrBlock)

	var networks []string
	if primary != "" {
		networks = append(networks, primary)
	}

	for _, assoc := range vpc.CidrBlockAssociationSet {
		cidr := aws.StringValue(assoc.CidrBlock)
		if cidr == "" || cidr == primary {
			continue
		}
		if assoc.CidrBlockState != nil && aws.StringValue(assoc.CidrBlockState.State) != ec2.VpcCidrBlockStateCodeAssociated {
			klog.V(2).Infof("Skipping CIDR block %s of VPC %s in state %s",
				cidr, aws.StringValue(vpc.VpcId), aws.StringValue(assoc.CidrBlockState.State))
			continue
		}
		networks = append(networks, cidr)
	}

	return networks
}

func (d *Discoverer) subnets(ctx context.Context, vpcID string) ([]string, error) {
	input := &ec2.DescribeSubnetsInput{
		Filters: []*ec2.Filter{{
			Name:   aws.String("vpc-id"),
			Values: aws.StringSlice([]string{vpcID}),
		}},
	}

	var subnets []string
	err := d.client.DescribeSubnetsPagesWithContext(ctx, input, func(page *ec2.DescribeSubnetsOutput, _ bool) bool {
		for _, subnet := range page.Subnets {
			if cidr := aws.StringValue(subnet.CidrBlock); cidr != "" {
				subnets = append(subnets, cidr)
			}
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list the subnets of VPC %s", vpcID)
	}

	return subnets, nil
}
