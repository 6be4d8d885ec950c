// Package manifest loads type domains from declarative files.
//
// A manifest names a domain and lists its types. References to a parent or an
// interface are either a bare type name, resolved in the same manifest, or
// "domain.Type", resolved in another manifest loaded alongside it. Types may be
// listed in any order; Build declares them parents first.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	oerrors "github.com/opmodel/modkit/internal/errors"
)

// Format is a manifest encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", oerrors.NewInvalidArgumentError(
			fmt.Sprintf("unsupported manifest extension %q", filepath.Ext(path)),
			path, []string{".yaml", ".yml", ".json", ".cue", ".toml", ".hcl"})
	}
}

// TypeDecl declares one class or interface.
type TypeDecl struct {
	// Name is unique within the manifest and must be an identifier.
	Name string `json:"name" toml:"name"`

	// Kind is "class" (default) or "interface".
	Kind string `json:"kind,omitempty" toml:"kind,omitempty"`

	// Parent is the parent class. Interfaces have none.
	Parent string `json:"parent,omitempty" toml:"parent,omitempty"`

	// Interfaces lists implemented interfaces, or extended ones for an interface.
	Interfaces []string `json:"interfaces,omitempty" toml:"interfaces,omitempty"`

	// Module marks the class as satisfying the module contract.
	Module bool `json:"module,omitempty" toml:"module,omitempty"`
}

// Manifest is one decoded domain file.
type Manifest struct {
	// Domain is the domain name, unique across manifests loaded together.
	Domain string `json:"domain" toml:"domain"`

	// Types are the declarations in file order.
	Types []TypeDecl `json:"types" toml:"types"`

	// Source is the file the manifest was read from, if any.
	Source string `json:"-" toml:"-"`
}

// Load reads and decodes the manifest at path. The format follows the extension.
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, oerrors.NewNotFoundError("manifest file does not exist", path, "Check the --domain path or the domains list in config")
		case os.IsPermission(err):
			return nil, oerrors.NewPermissionError("cannot read manifest", map[string]string{"Path": path}, "")
		default:
			return nil, fmt.Errorf("reading manifest %s: %w", path, err)
		}
	}

	m, err := Decode(data, format, path)
	if err != nil {
		return nil, err
	}
	m.Source = path
	return m, nil
}

// Decode parses data in the given format. filename is used in error messages.
func Decode(data []byte, format Format, filename string) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch format {
	case FormatYAML, FormatJSON:
		m, err = decodeYAML(data)
	case FormatCUE:
		m, err = decodeCUE(data, filename)
	case FormatTOML:
		m, err = decodeTOML(data)
	case FormatHCL:
		m, err = decodeHCL(data, filename)
	default:
		return nil, fmt.Errorf("%w: unknown manifest format %q", oerrors.ErrInvalidArgument, format)
	}
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), filename, "", "Check the manifest syntax")
	}
	return m, nil
}

// Lookup returns the declaration named name.
func (m *Manifest) Lookup(name string) (TypeDecl, bool) {
	for _, t := range m.Types {
		if t.Name == name {
			return t, true
		}
	}
	return TypeDecl{}, false
}

// splitRef splits "domain.Type" into its parts. A bare name has an empty domain.
func splitRef(ref string) (domain, name string) {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}
