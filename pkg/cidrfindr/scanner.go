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

// FindFit returns the lowest-addressed free block of the given prefix length inside the
// space, or false if none exists. A block is valid only if its start address is a
// multiple of its size, hence a /22 after two /24s lands on the next 1024-address
// boundary rather than on the next free address.
//
// A block as large as the whole network never fits: the network itself is not a
// candidate subnet of itself.
func FindFit(space *NetworkSpace, prefixLength int) (AddressRange, bool) {
	if !ValidPrefixLength(prefixLength) {
		return AddressRange{}, false
	}

	blockSize := BlockSize(prefixLength)
	if blockSize >= space.network.Size() {
		return AddressRange{}, false
	}

	for _, gap := range space.FreeGaps() {
		candidate := alignUp(gap.start, blockSize)
		if candidate+blockSize <= gap.end {
			return newAddressRange(candidate, prefixLength), true
		}
	}

	return AddressRange{}, false
}

// alignUp returns the smallest multiple of blockSize greater than or equal to addr.
// blockSize is always a power of two.
func alignUp(addr, blockSize uint64) uint64 {
	return (addr + blockSize - 1) &^ (blockSize - 1)
}
