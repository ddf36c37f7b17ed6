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
	"slices"
	"sort"

	"k8s.io/klog/v2"
)

// NetworkSpace is a parent network together with the sorted set of its occupied subnets.
type NetworkSpace struct {
	network  AddressRange
	occupied []AddressRange
}

// NewNetworkSpace validates the occupied ranges against the network and returns the
// resulting space. The occupied slice is copied and sorted by start address.
// Ranges whose base address is not aligned are occupied literally, from their base
// address for as many addresses as their prefix length implies.
func NewNetworkSpace(network AddressRange, occupied []AddressRange) (*NetworkSpace, error) {
	sorted := make([]AddressRange, len(occupied))
	copy(sorted, occupied)

	for i := range sorted {
		if !network.Contains(sorted[i]) {
			return nil, &ValidationError{Subject: sorted[i].String(), Reason: NotWithinNetwork + " " + network.String()}
		}
		if !sorted[i].Aligned() {
			klog.Warningf("Subnet %s is not aligned to its size, occupying it as written", sorted[i])
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	// Once sorted, any overlap shows up between neighbours.
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return nil, &ValidationError{Subject: sorted[i].String(), Reason: Overlapping + " " + sorted[i-1].String()}
		}
	}

	return &NetworkSpace{network: network, occupied: sorted}, nil
}

// Network returns the parent network of the space.
func (ns *NetworkSpace) Network() AddressRange {
	return ns.network
}

// Occupied returns a copy of the occupied ranges, sorted by start address.
func (ns *NetworkSpace) Occupied() []AddressRange {
	return slices.Clone(ns.occupied)
}

// Len returns the number of occupied ranges.
func (ns *NetworkSpace) Len() int {
	return len(ns.occupied)
}

// InsertOccupied records r as occupied, keeping the ranges sorted.
// The caller guarantees r does not overlap any occupied range.
func (ns *NetworkSpace) InsertOccupied(r AddressRange) {
	i := sort.Search(len(ns.occupied), func(i int) bool { return ns.occupied[i].start >= r.start })
	ns.occupied = slices.Insert(ns.occupied, i, r)
}

// FreeGaps returns the maximal free intervals of the network in ascending order.
// Gaps are plain intervals: their bounds are not necessarily a valid CIDR block.
func (ns *NetworkSpace) FreeGaps() []AddressRange {
	gaps := make([]AddressRange, 0, len(ns.occupied)+1)

	cursor := ns.network.start
	for _, occ := range ns.occupied {
		if occ.start > cursor {
			gaps = append(gaps, AddressRange{start: cursor, end: occ.start})
		}
		cursor = max(cursor, occ.end)
	}
	if cursor < ns.network.end {
		gaps = append(gaps, AddressRange{start: cursor, end: ns.network.end})
	}

	return gaps
}

// clone returns a deep copy of the space.
func (ns *NetworkSpace) clone() *NetworkSpace {
	return &NetworkSpace{network: ns.network, occupied: slices.Clone(ns.occupied)}
}
