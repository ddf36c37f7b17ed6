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
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FindFit", func() {
	newSpace := func(network string, occupied ...string) *NetworkSpace {
		space, err := NewNetworkSpace(MustParseAddressRange(network), mustParseAll(occupied...))
		if err != nil {
			panic(err)
		}
		return space
	}

	DescribeTable("should return the lowest aligned free block",
		func(space *NetworkSpace, prefixLength int, expected string) {
			r, ok := FindFit(space, prefixLength)
			Expect(ok).To(BeTrue())
			Expect(r.String()).To(Equal(expected))
		},
		Entry("empty network", newSpace("10.0.0.0/16"), 24, "10.0.0.0/24"),
		Entry("after a subnet", newSpace("10.0.0.0/16", "10.0.0.0/24"), 24, "10.0.1.0/24"),
		Entry("beside a smaller subnet", newSpace("10.0.0.0/16", "10.0.0.0/25"), 25, "10.0.0.128/25"),
		Entry("skipping a gap too small", newSpace("10.0.0.0/16", "10.0.0.0/25"), 24, "10.0.1.0/24"),
		Entry("in the middle gap", newSpace("192.168.1.0/24", "192.168.1.0/26", "192.168.1.128/25"), 26, "192.168.1.64/26"),
		Entry("at the next boundary of the block", newSpace("10.0.0.0/16", "10.0.0.0/24", "10.0.1.0/24"), 22, "10.0.4.0/22"),
		Entry("in a gap at the start", newSpace("10.0.0.0/24", "10.0.0.128/25"), 25, "10.0.0.0/25"),
		Entry("single address", newSpace("10.0.0.0/30", "10.0.0.0/31", "10.0.0.3/32"), 32, "10.0.0.2/32"),
		Entry("the top of the address space", newSpace("255.255.255.0/24", "255.255.255.0/25"), 25, "255.255.255.128/25"),
		Entry("a /1 of the whole address space", newSpace("0.0.0.0/0", "0.0.0.0/1"), 1, "128.0.0.0/1"),
	)

	DescribeTable("should not find any block",
		func(space *NetworkSpace, prefixLength int) {
			_, ok := FindFit(space, prefixLength)
			Expect(ok).To(BeFalse())
		},
		Entry("block bigger than the network", newSpace("10.0.0.0/25"), 24),
		Entry("block as big as the network", newSpace("10.0.0.0/16"), 16),
		Entry("full network", newSpace("10.0.0.0/24", "10.0.0.0/25", "10.0.0.128/25"), 26),
		Entry("no aligned gap", newSpace("10.0.0.0/24", "10.0.0.64/25"), 25),
		Entry("invalid prefix length", newSpace("10.0.0.0/16"), 33),
		Entry("negative prefix length", newSpace("10.0.0.0/16"), -1),
	)

	It("should not modify the space", func() {
		space := newSpace("10.0.0.0/16", "10.0.0.0/24")
		_, ok := FindFit(space, 24)
		Expect(ok).To(BeTrue())
		Expect(space.Len()).To(Equal(1))
	})

	Context("Properties", func() {
		// randomSpace carves random non-overlapping aligned subnets out of a /16.
		randomSpace := func(rnd *rand.Rand) *NetworkSpace {
			network := MustParseAddressRange("10.0.0.0/16")
			space, err := NewNetworkSpace(network, nil)
			Expect(err).ToNot(HaveOccurred())
			for n, i := rnd.Intn(40), 0; i < n; i++ {
				bits := 18 + rnd.Intn(15)
				offset := uint64(rnd.Int63n(int64(network.Size()))) &^ (BlockSize(bits) - 1)
				candidate := newAddressRange(network.Start()+offset, bits)
				overlaps := false
				for _, occ := range space.Occupied() {
					overlaps = overlaps || occ.Overlaps(candidate)
				}
				if !overlaps {
					space.InsertOccupied(candidate)
				}
			}
			return space
		}

		It("should never return overlapping, misaligned or out of bounds blocks", func() {
			rnd := rand.New(rand.NewSource(42))
			for i := 0; i < 200; i++ {
				space := randomSpace(rnd)
				for prefixLength := 17; prefixLength <= 32; prefixLength++ {
					r, ok := FindFit(space, prefixLength)
					if !ok {
						continue
					}
					Expect(r.Aligned()).To(BeTrue())
					Expect(r.Bits()).To(Equal(prefixLength))
					Expect(space.Network().Contains(r)).To(BeTrue())
					for _, occ := range space.Occupied() {
						Expect(occ.Overlaps(r)).To(BeFalse(), "%s overlaps %s", r, occ)
					}
				}
			}
		})

		It("should return the lowest fit", func() {
			rnd := rand.New(rand.NewSource(7))
			for i := 0; i < 50; i++ {
				space := randomSpace(rnd)
				prefixLength := 20 + rnd.Intn(8)
				r, ok := FindFit(space, prefixLength)
				if !ok {
					continue
				}
				// Every aligned block below the returned one must collide with an occupied range.
				size := BlockSize(prefixLength)
				for start := space.Network().Start(); start < r.Start(); start += size {
					lower := newAddressRange(start, prefixLength)
					collides := false
					for _, occ := range space.Occupied() {
						collides = collides || occ.Overlaps(lower)
					}
					Expect(collides).To(BeTrue(), "%s was free but %s was returned", lower, r)
				}
			}
		})
	})
})
