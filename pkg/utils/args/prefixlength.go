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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/liqotech/cidr-findr/pkg/cidrfindr"
)

var _ pflag.Value = &PrefixLengthList{}

// ParseSize converts a user supplied block size, either "24" or "/24", into a prefix length.
func ParseSize(str string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(str), "/")
	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: expected a prefix length such as 24 or /24", str)
	}
	if !cidrfindr.ValidPrefixLength(val) {
		return 0, fmt.Errorf("invalid size %q: it has to be in range [0 - 32]", str)
	}
	return val, nil
}

// SizesValid returns whether every size can be parsed by ParseSize.
func SizesValid(sizes []string) bool {
	for _, size := range sizes {
		if _, err := ParseSize(size); err != nil {
			return false
		}
	}
	return true
}

// PrefixLengthList implements the flag.Value interface and allows to parse stringified lists
// of block sizes in the form: "24,/25,26".
type PrefixLengthList struct {
	StringList StringList
	Sizes      []int
}

// String returns the stringified list.
func (pl *PrefixLengthList) String() string {
	return pl.StringList.String()
}

// Set parses the provided string into the list of prefix lengths.
func (pl *PrefixLengthList) Set(str string) error {
	var chunk StringList
	if err := chunk.Set(str); err != nil {
		return err
	}

	sizes := make([]int, 0, len(chunk.StringList))
	for _, s := range chunk.StringList {
		size, err := ParseSize(s)
		if err != nil {
			return err
		}
		sizes = append(sizes, size)
	}

	pl.StringList.StringList = append(pl.StringList.StringList, chunk.StringList...)
	pl.Sizes = append(pl.Sizes, sizes...)
	return nil
}

// Type returns the prefixLengthList type.
func (pl *PrefixLengthList) Type() string {
	return "prefixLengthList"
}

// Size is a block size read from a configuration file. Both numbers (24) and
// strings ("24", "/24") are accepted.
type Size int

// UnmarshalJSON parses a size expressed either as a number or as a string.
func (s *Size) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var num json.Number
		if errNum := json.Unmarshal(data, &num); errNum != nil {
			return fmt.Errorf("invalid size %s: expected a number or a string", data)
		}
		str = num.String()
	}

	size, err := ParseSize(str)
	if err != nil {
		return err
	}
	*s = Size(size)
	return nil
}
