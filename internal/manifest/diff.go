package manifest

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"
)

// Canonical renders m as YAML with types sorted by name. Two manifests that
// declare the same types in a different order or format render identically.
func Canonical(m *Manifest) ([]byte, error) {
	c := Manifest{Domain: m.Domain, Types: slices.Clone(m.Types)}
	slices.SortFunc(c.Types, func(a, b TypeDecl) int {
		return strings.Compare(a.Name, b.Name)
	})
	for i := range c.Types {
		c.Types[i].Kind = kindOrDefault(c.Types[i].Kind)
	}
	return yaml.Marshal(c)
}

// Diff compares two manifests structurally. Type entries are matched by name,
// so reordering is not a change. It returns an empty string when they match.
func Diff(from, to *Manifest, useColor bool) (string, error) {
	fromInput, err := canonicalInput(from)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", sourceName(from.Source), err)
	}
	toInput, err := canonicalInput(to)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", sourceName(to.Source), err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("comparing manifests: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := w.WriteReport(&buf); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func canonicalInput(m *Manifest) (ytbx.InputFile, error) {
	data, err := Canonical(m)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: sourceName(m.Source), Documents: docs}, nil
}

// TypeChange lists the fields of one type that differ, as "field: old -> new".
type TypeChange struct {
	Name   string
	Fields []string
}

// ChangeSet is a per-type comparison of two manifests. Names are sorted.
type ChangeSet struct {
	Added    []string
	Removed  []string
	Modified []TypeChange
}

// Empty reports whether the manifests declare the same types.
func (c ChangeSet) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Modified) == 0
}

// Changes compares two manifests type by type, using the same normalization as
// Canonical. A domain rename is reported as a change of the pseudo type "domain".
func Changes(from, to *Manifest) ChangeSet {
	var cs ChangeSet
	if from.Domain != to.Domain {
		cs.Modified = append(cs.Modified, TypeChange{
			Name:   "domain",
			Fields: []string{fieldChange("name", from.Domain, to.Domain)},
		})
	}

	for _, old := range sortedDecls(from) {
		cur, ok := to.Lookup(old.Name)
		if !ok {
			cs.Removed = append(cs.Removed, old.Name)
			continue
		}
		if fields := declChanges(old, cur); len(fields) > 0 {
			cs.Modified = append(cs.Modified, TypeChange{Name: old.Name, Fields: fields})
		}
	}
	for _, cur := range sortedDecls(to) {
		if _, ok := from.Lookup(cur.Name); !ok {
			cs.Added = append(cs.Added, cur.Name)
		}
	}
	return cs
}

func sortedDecls(m *Manifest) []TypeDecl {
	decls := slices.Clone(m.Types)
	slices.SortFunc(decls, func(a, b TypeDecl) int {
		return strings.Compare(a.Name, b.Name)
	})
	return decls
}

func declChanges(old, cur TypeDecl) []string {
	var fields []string
	if k1, k2 := kindOrDefault(old.Kind), kindOrDefault(cur.Kind); k1 != k2 {
		fields = append(fields, fieldChange("kind", k1, k2))
	}
	if old.Parent != cur.Parent {
		fields = append(fields, fieldChange("parent", old.Parent, cur.Parent))
	}
	if !slices.Equal(old.Interfaces, cur.Interfaces) {
		fields = append(fields, fieldChange("interfaces",
			"["+strings.Join(old.Interfaces, ", ")+"]", "["+strings.Join(cur.Interfaces, ", ")+"]"))
	}
	if old.Module != cur.Module {
		fields = append(fields, fieldChange("module", fmt.Sprint(old.Module), fmt.Sprint(cur.Module)))
	}
	return fields
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return "class"
	}
	return kind
}

func fieldChange(field, from, to string) string {
	if from == "" {
		from = "-"
	}
	if to == "" {
		to = "-"
	}
	return fmt.Sprintf("%s: %s -> %s", field, from, to)
}
