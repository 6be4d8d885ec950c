package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/modkit/internal/cmdutil"
	"github.com/opmodel/modkit/internal/config"
	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/pkg/hierarchy"
	"github.com/opmodel/modkit/pkg/module"
)

// NewTypesCmd creates the types command group.
func NewTypesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Query the type hierarchy",
		Long: `Query the type hierarchy declared by domain manifests.

Types are named as domain.Type, or by bare name when only one loaded
domain declares it.`,
	}

	cmd.AddCommand(NewTypesListCmd())
	cmd.AddCommand(NewTypesBasesCmd())
	cmd.AddCommand(NewTypesDerivedCmd())
	cmd.AddCommand(NewTypesRelateCmd())
	cmd.AddCommand(NewTypesTreeCmd())
	cmd.AddCommand(NewTypesClosureCmd())
	cmd.AddCommand(NewTypesDiffCmd())

	return cmd
}

// typeInfo is the encoded form of a type for -o yaml|json.
type typeInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       string   `json:"kind" yaml:"kind"`
	Parent     string   `json:"parent,omitempty" yaml:"parent,omitempty"`
	Interfaces []string `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Module     bool     `json:"module,omitempty" yaml:"module,omitempty"`
}

func newTypeInfo(t *hierarchy.Type) typeInfo {
	info := typeInfo{
		Name:       manifest.Qualified(t),
		Kind:       t.Kind().String(),
		Interfaces: qualifiedNames(t.Interfaces()),
		Module:     t.IsModule(),
	}
	if p := t.Parent(); p != nil {
		info.Parent = manifest.Qualified(p)
	}
	return info
}

func qualifiedNames(types []*hierarchy.Type) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, manifest.Qualified(t))
	}
	return out
}

// queryEnv is what a types query needs: the loaded domains, an initialized
// cache and an index to resolve type references.
type queryEnv struct {
	domains []*hierarchy.Domain
	cache   *hierarchy.Cache
	index   *manifest.TypeIndex
}

func loadQueryEnv(ctx context.Context) (*queryEnv, error) {
	s := currentSettings()
	domains, err := cmdutil.LoadDomains(ctx, s.Domains)
	if err != nil {
		return nil, err
	}
	return &queryEnv{
		domains: domains,
		cache:   cmdutil.NewCache(ctx, domains),
		index:   manifest.NewTypeIndex(domains...),
	}, nil
}

// currentSettings returns the resolved settings, or defaults when the root
// pre-run did not execute.
func currentSettings() *Settings {
	if settings != nil {
		return settings
	}
	return &Settings{
		Output:   output.FormatTable,
		Match:    module.MatchMode(config.DefaultMatch),
		Cleanup:  module.CleanupPolicy(config.DefaultCleanup),
		Exporter: config.DefaultExporter,
	}
}

// writeTypes renders types as a table or encodes them.
func writeTypes(w io.Writer, types []*hierarchy.Type) error {
	format := currentSettings().Output
	if format != output.FormatTable {
		infos := make([]typeInfo, 0, len(types))
		for _, t := range types {
			infos = append(infos, newTypeInfo(t))
		}
		return output.Encode(w, format, infos)
	}

	if len(types) == 0 {
		fmt.Fprintln(w, output.StyleDim.Render("(none)"))
		return nil
	}
	tbl := output.NewTable("TYPE", "KIND", "PARENT", "INTERFACES", "MODULE")
	for _, t := range types {
		info := newTypeInfo(t)
		tbl.Row(info.Name, info.Kind, dash(info.Parent), dash(strings.Join(info.Interfaces, ", ")), yesNo(info.Module))
	}
	fmt.Fprintln(w, tbl.String())
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// NewTypesListCmd creates the types list command.
func NewTypesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every declared type",
		Long: `List every type in the loaded domains, in declaration order.

Examples:
  # List types as a table
  modkit types list --domain core.yaml --domain game.yaml

  # Encode as YAML
  modkit types list -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadQueryEnv(cmd.Context())
			if err != nil {
				return err
			}
			var all []*hierarchy.Type
			for _, d := range env.domains {
				all = append(all, d.Types()...)
			}
			return writeTypes(cmd.OutOrStdout(), all)
		},
	}
}

// NewTypesBasesCmd creates the types bases command.
func NewTypesBasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bases <type>",
		Short: "Show the ancestor chain of a type",
		Long: `Show the ancestor chain of a type, nearest ancestor first.

Interfaces have an empty chain.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadQueryEnv(cmd.Context())
			if err != nil {
				return err
			}
			t, err := cmdutil.ResolveType(env.index, args[0])
			if err != nil {
				return err
			}
			return writeTypes(cmd.OutOrStdout(), env.cache.BaseTypes(t))
		},
	}
}

// NewTypesDerivedCmd creates the types derived command.
func NewTypesDerivedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derived <type>",
		Short: "Show every type deriving from a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadQueryEnv(cmd.Context())
			if err != nil {
				return err
			}
			t, err := cmdutil.ResolveType(env.index, args[0])
			if err != nil {
				return err
			}
			return writeTypes(cmd.OutOrStdout(), env.cache.DerivedTypes(t))
		},
	}
}

// relation is the encoded result of types relate.
type relation struct {
	Existing   string `json:"existing" yaml:"existing"`
	Requested  string `json:"requested" yaml:"requested"`
	Relation   string `json:"relation" yaml:"relation"`
	Assignable bool   `json:"assignable" yaml:"assignable"`
	Implements bool   `json:"implements" yaml:"implements"`
}

// NewTypesRelateCmd creates the types relate command.
func NewTypesRelateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relate <existing> <requested>",
		Short: "Classify how two types relate",
		Long: `Classify an existing type against a requested type.

The relation is one of same, ancestor (existing sits above requested),
descendant (existing derives from requested) or unrelated. A collection
rejects a checked add whenever the relation is anything but unrelated.

Examples:
  modkit types relate game.Component game.Health`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadQueryEnv(cmd.Context())
			if err != nil {
				return err
			}
			existing, err := cmdutil.ResolveType(env.index, args[0])
			if err != nil {
				return err
			}
			requested, err := cmdutil.ResolveType(env.index, args[1])
			if err != nil {
				return err
			}

			rel := relation{
				Existing:   manifest.Qualified(existing),
				Requested:  manifest.Qualified(requested),
				Relation:   env.cache.Relate(existing, requested).String(),
				Assignable: env.cache.IsAssignable(existing, requested),
				Implements: requested.IsInterface() && hierarchy.Implements(existing, requested),
			}

			w := cmd.OutOrStdout()
			if format := currentSettings().Output; format != output.FormatTable {
				return output.Encode(w, format, rel)
			}
			fmt.Fprintf(w, "%s is %s to %s\n", rel.Existing, output.StyleNoun.Render(rel.Relation), rel.Requested)
			fmt.Fprintf(w, "  assignable: %s\n", yesNo(rel.Assignable))
			if requested.IsInterface() {
				fmt.Fprintf(w, "  implements: %s\n", yesNo(rel.Implements))
			}
			return nil
		},
	}
}

// NewTypesTreeCmd creates the types tree command.
func NewTypesTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Render the class hierarchy",
		Long: `Render the class hierarchy of the loaded domains as a tree, followed
by the interfaces. Module classes are marked; implemented interfaces are
shown next to each class.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadQueryEnv(cmd.Context())
			if err != nil {
				return err
			}
			classes, ifaces := typeForest(env.domains)

			w := cmd.OutOrStdout()
			fmt.Fprint(w, output.RenderTree("Classes", classes))
			if len(ifaces) > 0 {
				fmt.Fprintln(w)
				fmt.Fprint(w, output.RenderTree("Interfaces", ifaces))
			}
			return nil
		},
	}
}

// typeForest builds tree nodes for every class, children in declaration
// order, plus a flat list of interfaces.
func typeForest(domains []*hierarchy.Domain) (classes, ifaces []*output.TreeNode) {
	nodes := make(map[*hierarchy.Type]*output.TreeNode)
	var order []*hierarchy.Type
	for _, d := range domains {
		for _, t := range d.Types() {
			if t.IsInterface() {
				desc := ""
				if ext := t.Interfaces(); len(ext) > 0 {
					desc = "extends " + strings.Join(qualifiedNames(ext), ", ")
				}
				ifaces = append(ifaces, &output.TreeNode{Name: manifest.Qualified(t), Description: desc})
				continue
			}
			nodes[t] = &output.TreeNode{Name: manifest.Qualified(t), Description: classDescription(t)}
			order = append(order, t)
		}
	}

	for _, t := range order {
		if p := t.Parent(); p != nil {
			if parent, ok := nodes[p]; ok {
				parent.Children = append(parent.Children, nodes[t])
				continue
			}
		}
		classes = append(classes, nodes[t])
	}
	return classes, ifaces
}

func classDescription(t *hierarchy.Type) string {
	var parts []string
	if t.IsModule() {
		parts = append(parts, "module")
	}
	if ifaces := t.Interfaces(); len(ifaces) > 0 {
		parts = append(parts, "implements "+strings.Join(qualifiedNames(ifaces), ", "))
	}
	return strings.Join(parts, "; ")
}

// NewTypesClosureCmd creates the types closure command.
func NewTypesClosureCmd() *cobra.Command {
	var qf cmdutil.QueryFlags

	cmd := &cobra.Command{
		Use:   "closure <type>",
		Short: "Show the registry keys a module type is indexed under",
		Long: `Show the keys a registry indexes a module of the given type under:
the type itself, its interfaces, then each ancestor while the ancestor
still qualifies as a module.

Without --contract a type qualifies when its module flag is inherited.
With --contract a type qualifies when it implements that interface.

Examples:
  modkit types closure game.Shield
  modkit types closure game.Shield --contract game.Combat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadQueryEnv(cmd.Context())
			if err != nil {
				return err
			}
			t, err := cmdutil.ResolveType(env.index, args[0])
			if err != nil {
				return err
			}

			var contract *hierarchy.Type
			if qf.Contract != "" {
				if contract, err = cmdutil.ResolveType(env.index, qf.Contract); err != nil {
					return err
				}
			}
			reg, err := module.NewRegistry(contract, module.WithRegistryLogger(output.Logger()))
			if err != nil {
				return err
			}
			return writeTypes(cmd.OutOrStdout(), reg.Closure(t))
		},
	}

	qf.AddTo(cmd)
	return cmd
}

// NewTypesDiffCmd creates the types diff command.
func NewTypesDiffCmd() *cobra.Command {
	var df cmdutil.DiffFlags

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare two domain manifests",
		Long: `Compare two domain manifests after normalizing them. The manifests may
use different formats; type order and default kinds do not count as
changes.

Examples:
  modkit types diff game.yaml game_v2.yaml
  modkit types diff game.cue game.toml --color never
  modkit types diff game.yaml game_v2.yaml --summary`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := df.Validate(); err != nil {
				return err
			}
			from, err := manifest.Load(args[0])
			if err != nil {
				return err
			}
			to, err := manifest.Load(args[1])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			changes := manifest.Changes(from, to)
			if changes.Empty() {
				fmt.Fprintln(w, output.FormatCheckmark("No differences"))
				return nil
			}

			if df.Summary {
				modified := make([]output.ModifiedItem, 0, len(changes.Modified))
				for _, c := range changes.Modified {
					modified = append(modified, output.ModifiedItem{Name: c.Name, Detail: c.Fields})
				}
				fmt.Fprintln(w, output.RenderChanges(changes.Added, changes.Removed, modified))
				return nil
			}

			report, err := manifest.Diff(from, to, df.UseColor())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, report)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Summary: "+output.ChangeSummary(len(changes.Added), len(changes.Removed), len(changes.Modified)))
			return nil
		},
	}

	df.AddTo(cmd)
	return cmd
}
