// Package scenario replays scripted module operations against a Collection per
// owner or a shared Registry.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/modkit/internal/errors"
)

// Target selects the storage a scenario runs against.
type Target string

const (
	TargetCollection Target = "collection"
	TargetRegistry   Target = "registry"
)

// Op is a step operation.
type Op string

const (
	OpAdd         Op = "add"
	OpRemove      Op = "remove"
	OpGet         Op = "get"
	OpHas         Op = "has"
	OpRemoveOwner Op = "remove-owner"
)

// ValidOps lists every accepted operation.
func ValidOps() []string {
	return []string{string(OpAdd), string(OpRemove), string(OpGet), string(OpHas), string(OpRemoveOwner)}
}

// Scenario is a decoded scenario file.
type Scenario struct {
	Name string `yaml:"name"`

	// Target defaults to collection.
	Target Target `yaml:"target,omitempty"`

	// Contract is the registry's contract interface. Empty means the module
	// flag of each type decides.
	Contract string `yaml:"contract,omitempty"`

	// Cleanup overrides the registry cleanup policy.
	Cleanup string `yaml:"cleanup,omitempty"`

	// Owners are declared up front; steps may only name these.
	Owners []string `yaml:"owners"`

	Steps []Step `yaml:"steps"`
}

// Step is one operation. Which fields apply depends on Op.
type Step struct {
	Op    Op     `yaml:"op"`
	Owner string `yaml:"owner"`

	// Type is the module's concrete type for add, the query type otherwise.
	Type string `yaml:"type,omitempty"`

	// Module names the module created by add.
	Module string `yaml:"module,omitempty"`

	// As is the requested type for add. Defaults to Type.
	As string `yaml:"as,omitempty"`

	// Check toggles the collection duplicate check for add. Defaults to true.
	Check *bool `yaml:"check,omitempty"`

	// Mode is the collection remove mode, "all" or "first".
	Mode string `yaml:"mode,omitempty"`

	// Match is the collection lookup mode, "assignable" or "exact".
	Match string `yaml:"match,omitempty"`

	// Raw reads the registry entry with GetModuleUnsafe instead of GetModule.
	Raw bool `yaml:"raw,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect holds the assertions for a step. Unset fields are not checked.
type Expect struct {
	// OK is the add outcome, or whether get/has found a module.
	OK *bool `yaml:"ok,omitempty"`

	// Count is the number of modules removed.
	Count *int `yaml:"count,omitempty"`

	// Module is the name of the module get returned.
	Module *string `yaml:"module,omitempty"`

	// Hooks is the number of removal hooks fired by the step.
	Hooks *int `yaml:"hooks,omitempty"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("scenario file does not exist", path, "")
		}
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), path, "", "Check the scenario syntax")
	}
	return s, nil
}

// Decode parses a scenario. Unknown fields are rejected.
func Decode(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scenario is empty")
		}
		return nil, err
	}
	if s.Target == "" {
		s.Target = TargetCollection
	}
	return &s, nil
}
