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

package args

import (
	"github.com/spf13/pflag"

	"github.com/liqotech/cidr-findr/pkg/cidrfindr"
)

var _ pflag.Value = &CIDRList{}

// CIDRList implements the flag.Value interface and allows to parse stringified lists
// of IPv4 networks in the form: "10.0.0.0/16,10.1.0.0/16".
// The flag can be repeated, values are appended in order.
type CIDRList struct {
	StringList StringList
	Ranges     []cidrfindr.AddressRange
}

// String returns the stringified list.
func (cl *CIDRList) String() string {
	return cl.StringList.String()
}

// Set parses the provided string into the list of address ranges.
func (cl *CIDRList) Set(str string) error {
	var chunk StringList
	if err := chunk.Set(str); err != nil {
		return err
	}

	ranges := make([]cidrfindr.AddressRange, 0, len(chunk.StringList))
	for _, cidr := range chunk.StringList {
		r, err := cidrfindr.ParseAddressRange(cidr)
		if err != nil {
			return err
		}
		ranges = append(ranges, r)
	}

	cl.StringList.StringList = append(cl.StringList.StringList, chunk.StringList...)
	cl.Ranges = append(cl.Ranges, ranges...)
	return nil
}

// Type returns the cidrList type.
func (cl *CIDRList) Type() string {
	return "cidrList"
}
