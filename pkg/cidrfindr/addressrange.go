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
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
)

const (
	// ipv4BitLen is the number of bits of an IPv4 address.
	ipv4BitLen = 32
)

// AddressRange is an IPv4 CIDR block expressed as the half-open interval [start, end).
// The end is kept on 64 bits so that 0.0.0.0/0 can be represented.
type AddressRange struct {
	start uint64
	end   uint64
	bits  int
}

// BlockSize returns the number of addresses of a block with the given prefix length.
func BlockSize(prefixLength int) uint64 {
	return uint64(1) << uint(ipv4BitLen-prefixLength)
}

// ValidPrefixLength returns whether the prefix length is acceptable for an IPv4 block.
func ValidPrefixLength(prefixLength int) bool {
	return prefixLength >= 0 && prefixLength <= ipv4BitLen
}

// NewAddressRange creates the range of the block starting at start with the given prefix length.
// The start address is kept as is, even when it is not aligned to the block size.
func NewAddressRange(start uint32, prefixLength int) (AddressRange, error) {
	if !ValidPrefixLength(prefixLength) {
		return AddressRange{}, &ValidationError{Subject: fmt.Sprintf("/%d", prefixLength), Reason: PrefixOutOfRange}
	}
	return newAddressRange(uint64(start), prefixLength), nil
}

func newAddressRange(start uint64, prefixLength int) AddressRange {
	return AddressRange{start: start, end: start + BlockSize(prefixLength), bits: prefixLength}
}

// ParseAddressRange parses a string in the form "a.b.c.d/n".
func ParseAddressRange(cidr string) (AddressRange, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil {
		return AddressRange{}, &ParseError{Input: cidr, Reason: trimNetipError(err)}
	}
	if !prefix.Addr().Is4() {
		return AddressRange{}, &ParseError{Input: cidr, Reason: "not an IPv4 network"}
	}
	return FromPrefix(prefix), nil
}

// MustParseAddressRange is like ParseAddressRange, but panics in case of errors.
func MustParseAddressRange(cidr string) AddressRange {
	r, err := ParseAddressRange(cidr)
	if err != nil {
		panic(err)
	}
	return r
}

// FromPrefix converts an IPv4 prefix into the corresponding range, without masking its address.
func FromPrefix(prefix netip.Prefix) AddressRange {
	octets := prefix.Addr().As4()
	return newAddressRange(uint64(binary.BigEndian.Uint32(octets[:])), prefix.Bits())
}

// trimNetipError drops the quoted input netip repeats at the beginning of its messages.
func trimNetipError(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, "): "); i >= 0 {
		return msg[i+3:]
	}
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// Start returns the first address of the range.
func (r AddressRange) Start() uint64 { return r.start }

// End returns the first address after the range.
func (r AddressRange) End() uint64 { return r.end }

// Bits returns the prefix length of the range.
func (r AddressRange) Bits() int { return r.bits }

// Size returns the number of addresses of the range.
func (r AddressRange) Size() uint64 { return r.end - r.start }

// Aligned returns whether the start address is a multiple of the range size.
func (r AddressRange) Aligned() bool {
	if r.Size() == 0 {
		return false
	}
	return r.start%r.Size() == 0
}

// Contains returns whether other lies entirely within r.
func (r AddressRange) Contains(other AddressRange) bool {
	return other.start >= r.start && other.end <= r.end
}

// Overlaps returns whether r and other share at least one address.
func (r AddressRange) Overlaps(other AddressRange) bool {
	return r.start < other.end && other.start < r.end
}

// Addr returns the start address of the range.
func (r AddressRange) Addr() netip.Addr {
	var octets [4]byte
	binary.BigEndian.PutUint32(octets[:], uint32(r.start))
	return netip.AddrFrom4(octets)
}

// Prefix returns the range as a netip.Prefix, keeping the literal start address.
func (r AddressRange) Prefix() netip.Prefix {
	return netip.PrefixFrom(r.Addr(), r.bits)
}

// String returns the range in the canonical "base/prefixLength" form.
func (r AddressRange) String() string {
	return r.Prefix().String()
}
