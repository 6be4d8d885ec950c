package manifest

import (
	"bytes"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	"sigs.k8s.io/yaml"
)

func decodeYAML(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// decodeCUE evaluates the file and decodes its concrete value. Fields may be
// computed with any CUE expression as long as the result is concrete.
func decodeCUE(data []byte, filename string) (*Manifest, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("evaluating: %w", err)
	}

	var m Manifest
	if err := v.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	return &m, nil
}

func decodeTOML(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// hclManifest is the HCL shape: a domain attribute and one labeled block per
// type.
//
//	domain = "game"
//	type "Base" {
//	  module = true
//	}
type hclManifest struct {
	Domain string     `hcl:"domain"`
	Types  []*hclType `hcl:"type,block"`
}

type hclType struct {
	Name       string   `hcl:"name,label"`
	Kind       string   `hcl:"kind,optional"`
	Parent     string   `hcl:"parent,optional"`
	Interfaces []string `hcl:"interfaces,optional"`
	Module     bool     `hcl:"module,optional"`
}

func decodeHCL(data []byte, filename string) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing: %w", diags)
	}

	var parsed hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decoding: %w", diags)
	}

	m := &Manifest{Domain: parsed.Domain, Types: make([]TypeDecl, 0, len(parsed.Types))}
	for _, t := range parsed.Types {
		m.Types = append(m.Types, TypeDecl{
			Name:       t.Name,
			Kind:       t.Kind,
			Parent:     t.Parent,
			Interfaces: t.Interfaces,
			Module:     t.Module,
		})
	}
	return m, nil
}
