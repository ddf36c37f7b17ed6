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

// Package allocate implements the cidr-findr commands allocating new subnets.
package allocate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/liqotech/cidr-findr/pkg/awsvpc"
	"github.com/liqotech/cidr-findr/pkg/cidrfindr"
	"github.com/liqotech/cidr-findr/pkg/findrctl/output"
	"github.com/liqotech/cidr-findr/pkg/utils/args"
)

// Format is the format of the command output.
type Format string

const (
	// TextFormat prints one CIDR per line.
	TextFormat Format = "text"
	// JSONFormat prints the result as a JSON document.
	JSONFormat Format = "json"
	// YAMLFormat prints the result as a YAML document.
	YAMLFormat Format = "yaml"
)

// Discoverer retrieves the layout of a VPC.
type Discoverer interface {
	Discover(ctx context.Context, vpcID string) (*awsvpc.Layout, error)
}

// Config is the content of the configuration file. Values given through flags take precedence.
type Config struct {
	Networks []string    `json:"networks,omitempty"`
	Subnets  []string    `json:"subnets,omitempty"`
	Sizes    []args.Size `json:"sizes,omitempty"`
	VpcID    string      `json:"vpcId,omitempty"`
	Region   string      `json:"region,omitempty"`
}

// Result is the output of a successful allocation.
type Result struct {
	VpcID string   `json:"vpcId,omitempty"`
	Cidrs []string `json:"cidrs"`
}

// Options encapsulates the arguments of the allocation commands.
type Options struct {
	Printer *output.Printer
	Out     io.Writer

	ConfigFile   string
	Networks     args.CIDRList
	Subnets      args.CIDRList
	Sizes        args.PrefixLengthList
	VpcID        string
	Region       string
	OutputFormat string

	NewDiscoverer func(region string) (Discoverer, error)
}

// NewOptions returns a new Options struct.
func NewOptions(printer *output.Printer) *Options {
	return &Options{
		Printer:      printer,
		Out:          os.Stdout,
		OutputFormat: string(TextFormat),
		NewDiscoverer: func(region string) (Discoverer, error) {
			d, err := awsvpc.NewDiscoverer(region)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	}
}

// LoadConfig reads the configuration file at the given path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading configuration file %q", path)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed parsing configuration file %q", path)
	}
	return &cfg, nil
}

// Complete merges the configuration file, if any, into the options and validates them.
func (o *Options) Complete() error {
	switch Format(o.OutputFormat) {
	case TextFormat, JSONFormat, YAMLFormat:
	default:
		return fmt.Errorf("unsupported output format %q: expected one of %s, %s, %s",
			o.OutputFormat, TextFormat, JSONFormat, YAMLFormat)
	}

	if o.ConfigFile == "" {
		return nil
	}

	cfg, err := LoadConfig(o.ConfigFile)
	if err != nil {
		return err
	}
	klog.V(2).Infof("Loaded configuration file %q", o.ConfigFile)

	o.warnOverridden("networks", len(cfg.Networks), len(o.Networks.Ranges))
	o.warnOverridden("subnets", len(cfg.Subnets), len(o.Subnets.Ranges))
	o.warnOverridden("sizes", len(cfg.Sizes), len(o.Sizes.Sizes))

	if len(o.Networks.Ranges) == 0 {
		for _, network := range cfg.Networks {
			if err := o.Networks.Set(network); err != nil {
				return errors.Wrapf(err, "invalid network in configuration file %q", o.ConfigFile)
			}
		}
	}
	if len(o.Subnets.Ranges) == 0 {
		for _, subnet := range cfg.Subnets {
			if err := o.Subnets.Set(subnet); err != nil {
				return errors.Wrapf(err, "invalid subnet in configuration file %q", o.ConfigFile)
			}
		}
	}
	if len(o.Sizes.Sizes) == 0 {
		for _, size := range cfg.Sizes {
			o.Sizes.Sizes = append(o.Sizes.Sizes, int(size))
			o.Sizes.StringList.StringList = append(o.Sizes.StringList.StringList, fmt.Sprint(int(size)))
		}
	}
	if o.VpcID == "" {
		o.VpcID = cfg.VpcID
	}
	if o.Region == "" {
		o.Region = cfg.Region
	}

	return nil
}

func (o *Options) warnOverridden(field string, fromConfig, fromFlags int) {
	if fromConfig > 0 && fromFlags > 0 {
		o.Printer.Warning.Printfln("Ignoring the %s of configuration file %q, as given through flags", field, o.ConfigFile)
	}
}

// RunFind allocates the requested subnets inside the networks given as arguments.
func (o *Options) RunFind(_ context.Context) error {
	findr, err := cidrfindr.NewFromRanges(o.Networks.Ranges, o.Subnets.Ranges)
	if err != nil {
		return err
	}

	return o.allocate(findr, &Result{})
}

// RunVPC allocates the requested subnets inside an AWS VPC. Subnets given as arguments
// are considered occupied, in addition to the ones existing in the VPC.
func (o *Options) RunVPC(ctx context.Context) error {
	if o.VpcID == "" {
		return fmt.Errorf("the VPC ID is required")
	}

	discoverer, err := o.NewDiscoverer(o.Region)
	if err != nil {
		return err
	}

	layout, err := discoverer.Discover(ctx, o.VpcID)
	if err != nil {
		return err
	}

	o.Printer.Verbosef("VPC %s networks: %v", layout.VpcID, layout.Networks)
	o.Printer.Verbosef("VPC %s has %d existing subnets", layout.VpcID, len(layout.Subnets))

	layout.Subnets = append(layout.Subnets, o.Subnets.StringList.StringList...)
	findr, err := layout.NewCidrFindr()
	if err != nil {
		return err
	}

	return o.allocate(findr, &Result{VpcID: layout.VpcID})
}

func (o *Options) allocate(findr *cidrfindr.CidrFindr, result *Result) error {
	cidrs, err := findr.NextSubnets(o.Sizes.Sizes...)
	if err != nil {
		return err
	}
	result.Cidrs = cidrs

	for i := range cidrs {
		o.Printer.Verbosef("Allocated /%d block: %s", o.Sizes.Sizes[i], cidrs[i])
	}

	return o.print(result)
}

func (o *Options) print(result *Result) error {
	switch Format(o.OutputFormat) {
	case JSONFormat:
		encoder := json.NewEncoder(o.Out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case YAMLFormat:
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = o.Out.Write(data)
		return err
	default:
		for _, cidr := range result.Cidrs {
			if _, err := fmt.Fprintln(o.Out, cidr); err != nil {
				return err
			}
		}
		return nil
	}
}
