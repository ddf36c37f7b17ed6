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

// Package docs generates the cidr-findr command line reference.
package docs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"k8s.io/klog/v2"
)

// Type is the format of the generated documentation.
type Type string

const (
	// MarkdownType generates one markdown page per command.
	MarkdownType Type = "markdown"
	// ManType generates one man page per command.
	ManType Type = "man"
)

// Options encapsulates the arguments of the docs command.
type Options struct {
	Root            *cobra.Command
	Destination     string
	DocType         string
	GenerateHeaders bool
}

// Run generates the documentation of the root command and all its children.
func (o *Options) Run(_ context.Context) error {
	if err := os.MkdirAll(o.Destination, 0o750); err != nil {
		return errors.Wrapf(err, "failed creating output directory %q", o.Destination)
	}

	// The generated pages should not depend on the day they are produced.
	o.Root.DisableAutoGenTag = true

	klog.V(2).Infof("Generating %s documentation in %q", o.DocType, o.Destination)
	switch Type(o.DocType) {
	case MarkdownType:
		if o.GenerateHeaders {
			return doc.GenMarkdownTreeCustom(o.Root, o.Destination, header, func(s string) string { return s })
		}
		return doc.GenMarkdownTree(o.Root, o.Destination)
	case ManType:
		manHdr := &doc.GenManHeader{Title: strings.ToUpper(o.Root.Name()), Section: "1"}
		return doc.GenManTree(o.Root, manHdr, o.Destination)
	default:
		return errors.Errorf("unknown doc type %q. Try %q or %q", o.DocType, MarkdownType, ManType)
	}
}

// header returns the front matter of a markdown page, titled after the command path.
func header(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, path.Ext(base))
	caser := cases.Title(language.AmericanEnglish)
	title := caser.String(strings.ReplaceAll(name, "_", " "))
	return fmt.Sprintf("---\ntitle: %q\n---\n\n", title)
}
