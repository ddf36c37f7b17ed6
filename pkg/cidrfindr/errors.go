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
	"errors"
	"fmt"
	"strings"
)

const (
	// NotEnoughSpaceMessage is the message carried by every AllocationError.
	NotEnoughSpaceMessage = "Not enough space for the requested CIDR blocks"

	// NotWithinNetwork used as reason of failure in ValidationError.
	NotWithinNetwork = "subnet not within network"
	// Overlapping used as reason of failure in ValidationError.
	Overlapping = "overlaps with"
	// NoNetworks used as reason of failure in ValidationError.
	NoNetworks = "at least one network is required"
	// PrefixOutOfRange used as reason of failure in ValidationError and ParseError.
	PrefixOutOfRange = "prefix length must be between 0 and 32"
)

// ErrNotEnoughSpace is matched by every AllocationError through errors.Is.
var ErrNotEnoughSpace = errors.New(NotEnoughSpaceMessage)

// ParseError is returned when a CIDR string cannot be parsed.
type ParseError struct {
	Input  string
	Reason string
}

func (pe *ParseError) Error() string {
	return fmt.Sprintf("invalid CIDR %q: %s", pe.Input, pe.Reason)
}

// ValidationError is returned when parsed networks and subnets do not satisfy the
// constraints of the allocator (containment, alignment, overlap).
type ValidationError struct {
	Subject string
	Reason  string
}

func (ve *ValidationError) Error() string {
	return strings.Join([]string{ve.Subject, ve.Reason}, ": ")
}

// AllocationError is returned when no aligned free block of the requested size is left.
type AllocationError struct {
	PrefixLength int
}

func (ae *AllocationError) Error() string {
	return NotEnoughSpaceMessage
}

// Is makes errors.Is(err, ErrNotEnoughSpace) succeed for every AllocationError.
func (ae *AllocationError) Is(target error) bool {
	if target == ErrNotEnoughSpace {
		return true
	}
	_, ok := target.(*AllocationError)
	return ok
}

// IsParseError returns whether the error, or one it wraps, is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsValidationError returns whether the error, or one it wraps, is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
