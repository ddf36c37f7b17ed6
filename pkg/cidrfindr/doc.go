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

// Package cidrfindr finds the next free, block-aligned IPv4 CIDR blocks inside one or
// more parent networks that already contain a set of occupied subnets.
//
// A CidrFindr is built once per batch of requests and serves them sequentially:
// every allocated block is recorded before the next request is served, so blocks
// returned by the same instance never overlap each other nor the pre-existing subnets.
//
//	findr, err := cidrfindr.New([]string{"10.0.0.0/16"}, []string{"10.0.0.0/24"})
//	if err != nil {
//		return err
//	}
//	cidr, err := findr.NextSubnet(24) // "10.0.1.0/24"
//
// A CidrFindr is not safe for concurrent use.
package cidrfindr
