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

package awsvpc

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/liqotech/cidr-findr/pkg/cidrfindr"
)

const vpcID = "vpc-0123456789"

// fakeEC2 serves canned DescribeVpcs and DescribeSubnets responses.
type fakeEC2 struct {
	ec2iface.EC2API

	vpcs        []*ec2.Vpc
	subnetPages [][]*ec2.Subnet
	vpcErr      error
	subnetErr   error

	vpcIDs        []string
	subnetFilters []*ec2.Filter
}

func (f *fakeEC2) DescribeVpcsWithContext(_ aws.Context, input *ec2.DescribeVpcsInput,
	_ ...request.Option) (*ec2.DescribeVpcsOutput, error) {
	if f.vpcErr != nil {
		return nil, f.vpcErr
	}
	f.vpcIDs = aws.StringValueSlice(input.VpcIds)
	return &ec2.DescribeVpcsOutput{Vpcs: f.vpcs}, nil
}

func (f *fakeEC2) DescribeSubnetsPagesWithContext(_ aws.Context, input *ec2.DescribeSubnetsInput,
	fn func(*ec2.DescribeSubnetsOutput, bool) bool, _ ...request.Option) error {
	if f.subnetErr != nil {
		return f.subnetErr
	}
	f.subnetFilters = input.Filters
	for i, page := range f.subnetPages {
		if !fn(&ec2.DescribeSubnetsOutput{Subnets: page}, i == len(f.subnetPages)-1) {
			break
		}
	}
	return nil
}

func association(cidr, state string) *ec2.VpcCidrBlockAssociation {
	return &ec2.VpcCidrBlockAssociation{
		CidrBlock:      aws.String(cidr),
		CidrBlockState: &ec2.VpcCidrBlockState{State: aws.String(state)},
	}
}

func subnet(cidr string) *ec2.Subnet {
	return &ec2.Subnet{CidrBlock: aws.String(cidr), VpcId: aws.String(vpcID)}
}

var _ = Describe("Discoverer", func() {
	var (
		ctx    context.Context
		client *fakeEC2
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &fakeEC2{
			vpcs: []*ec2.Vpc{{
				VpcId:     aws.String(vpcID),
				CidrBlock: aws.String("10.0.0.0/16"),
				CidrBlockAssociationSet: []*ec2.VpcCidrBlockAssociation{
					association("10.0.0.0/16", ec2.VpcCidrBlockStateCodeAssociated),
					association("10.1.0.0/16", ec2.VpcCidrBlockStateCodeAssociated),
					association("10.2.0.0/16", ec2.VpcCidrBlockStateCodeDisassociated),
				},
			}},
			subnetPages: [][]*ec2.Subnet{
				{subnet("10.0.0.0/24"), subnet("10.0.1.0/24")},
				{subnet("10.1.0.0/20")},
			},
		}
	})

	It("should retrieve the layout of the VPC", func() {
		layout, err := NewDiscovererForClient(client).Discover(ctx, vpcID)
		Expect(err).ToNot(HaveOccurred())
		Expect(layout.VpcID).To(Equal(vpcID))
		Expect(layout.Networks).To(Equal([]string{"10.0.0.0/16", "10.1.0.0/16"}))
		Expect(layout.Subnets).To(Equal([]string{"10.0.0.0/24", "10.0.1.0/24", "10.1.0.0/20"}))

		Expect(client.vpcIDs).To(ConsistOf(vpcID))
		Expect(client.subnetFilters).To(HaveLen(1))
		Expect(aws.StringValue(client.subnetFilters[0].Name)).To(Equal("vpc-id"))
		Expect(aws.StringValueSlice(client.subnetFilters[0].Values)).To(ConsistOf(vpcID))
	})

	It("should allocate subnets in the retrieved layout", func() {
		layout, err := NewDiscovererForClient(client).Discover(ctx, vpcID)
		Expect(err).ToNot(HaveOccurred())

		findr, err := layout.NewCidrFindr()
		Expect(err).ToNot(HaveOccurred())
		Expect(findr.NextSubnets(24, 17)).To(Equal([]string{"10.0.2.0/24", "10.0.128.0/17"}))
	})

	It("should fail when the VPC does not exist", func() {
		client.vpcs = nil
		_, err := NewDiscovererForClient(client).Discover(ctx, vpcID)
		Expect(err).To(HaveOccurred())
	})

	It("should wrap the errors of the EC2 APIs", func() {
		client.subnetErr = errors.New("throttled")
		_, err := NewDiscovererForClient(client).Discover(ctx, vpcID)
		Expect(err).To(MatchError(ContainSubstring("unable to list the subnets of VPC " + vpcID)))
		Expect(err).To(MatchError(ContainSubstring("throttled")))
	})

	It("should reject layouts with subnets outside the VPC", func() {
		layout := &Layout{VpcID: vpcID, Networks: []string{"10.0.0.0/16"}, Subnets: []string{"10.1.0.0/24"}}
		_, err := layout.NewCidrFindr()
		Expect(cidrfindr.IsValidationError(err)).To(BeTrue())
	})

	Context("Parsing the VPC output", func() {
		It("should fall back to the associations when the primary block is missing", func() {
			networks := parseVpcOutput(&ec2.Vpc{
				CidrBlockAssociationSet: []*ec2.VpcCidrBlockAssociation{
					association("172.31.0.0/16", ec2.VpcCidrBlockStateCodeAssociated),
					association("172.30.0.0/16", ec2.VpcCidrBlockStateCodeAssociating),
				},
			})
			Expect(networks).To(Equal([]string{"172.31.0.0/16"}))
		})
	})
})
