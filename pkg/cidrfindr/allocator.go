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

package cidrfindr

import (
	"fmt"

	"k8s.io/klog/v2"
)

// CidrFindr serves sequential subnet requests over an ordered list of parent networks.
type CidrFindr struct {
	spaces []*NetworkSpace
}

// New parses the given networks and subnets and returns a CidrFindr ready to serve requests.
// Each subnet is assigned to the network containing it, whatever the order it is given in.
func New(networks, subnets []string) (*CidrFindr, error) {
	networkRanges, err := parseAll(networks)
	if err != nil {
		return nil, err
	}
	subnetRanges, err := parseAll(subnets)
	if err != nil {
		return nil, err
	}
	return NewFromRanges(networkRanges, subnetRanges)
}

// NewFromRanges returns a CidrFindr for already parsed networks and subnets.
// Networks are tried in the order they are given.
func NewFromRanges(networks, subnets []AddressRange) (*CidrFindr, error) {
	if len(networks) == 0 {
		return nil, &ValidationError{Subject: "networks", Reason: NoNetworks}
	}

	for i := range networks {
		if !networks[i].Aligned() {
			klog.Warningf("Network %s is not aligned to its size, using it as written", networks[i])
		}
		for j := 0; j < i; j++ {
			if networks[i].Overlaps(networks[j]) {
				return nil, &ValidationError{Subject: networks[i].String(), Reason: Overlapping + " " + networks[j].String()}
			}
		}
	}

	occupied := make([][]AddressRange, len(networks))
	for _, subnet := range subnets {
		idx := -1
		for i := range networks {
			if networks[i].Contains(subnet) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &ValidationError{Subject: subnet.String(), Reason: NotWithinNetwork}
		}
		occupied[idx] = append(occupied[idx], subnet)
	}

	spaces := make([]*NetworkSpace, len(networks))
	for i := range networks {
		space, err := NewNetworkSpace(networks[i], occupied[i])
		if err != nil {
			return nil, err
		}
		spaces[i] = space
		klog.V(4).Infof("Network %s has %d occupied subnets", networks[i], space.Len())
	}

	return &CidrFindr{spaces: spaces}, nil
}

func parseAll(cidrs []string) ([]AddressRange, error) {
	ranges := make([]AddressRange, len(cidrs))
	for i := range cidrs {
		r, err := ParseAddressRange(cidrs[i])
		if err != nil {
			return nil, err
		}
		ranges[i] = r
	}
	return ranges, nil
}

// NextSubnet allocates the first free block with the given prefix length, looking at the
// networks in their original order and, within each network, at the lowest address.
// The allocated block is recorded, so that it constrains the following requests.
// On failure the state is left untouched.
func (cf *CidrFindr) NextSubnet(prefixLength int) (string, error) {
	r, err := cf.next(prefixLength)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// NextRange is like NextSubnet, but returns the allocated range.
func (cf *CidrFindr) NextRange(prefixLength int) (AddressRange, error) {
	return cf.next(prefixLength)
}

func (cf *CidrFindr) next(prefixLength int) (AddressRange, error) {
	if !ValidPrefixLength(prefixLength) {
		return AddressRange{}, &ValidationError{Subject: fmt.Sprintf("/%d", prefixLength), Reason: PrefixOutOfRange}
	}

	for _, space := range cf.spaces {
		if r, ok := FindFit(space, prefixLength); ok {
			space.InsertOccupied(r)
			klog.V(4).Infof("Allocated %s in network %s", r, space.Network())
			return r, nil
		}
	}

	klog.V(4).Infof("No space left for a /%d block", prefixLength)
	return AddressRange{}, &AllocationError{PrefixLength: prefixLength}
}

// NextSubnets serves the given requests in order. Either all of them succeed, or the
// first error is returned and the CidrFindr goes back to the state it had before the call.
func (cf *CidrFindr) NextSubnets(prefixLengths ...int) ([]string, error) {
	backup := cf.snapshot()

	cidrs := make([]string, 0, len(prefixLengths))
	for _, prefixLength := range prefixLengths {
		cidr, err := cf.NextSubnet(prefixLength)
		if err != nil {
			cf.spaces = backup
			return nil, err
		}
		cidrs = append(cidrs, cidr)
	}
	return cidrs, nil
}

// Spaces returns a copy of the network spaces, in the order they are tried.
func (cf *CidrFindr) Spaces() []*NetworkSpace {
	return cf.snapshot()
}

func (cf *CidrFindr) snapshot() []*NetworkSpace {
	spaces := make([]*NetworkSpace, len(cf.spaces))
	for i := range cf.spaces {
		spaces[i] = cf.spaces[i].clone()
	}
	return spaces
}
