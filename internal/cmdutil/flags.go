// Package cmdutil provides shared command utilities for the types and run
// subcommands. It centralizes flag groups, domain loading and the printing of
// validation failures.
package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/output"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// QueryFlags holds flags for commands that look types up (relate, closure).
type QueryFlags struct {
	Contract string
}

// AddTo registers the query flags on the given cobra command.
func (f *QueryFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Contract, "contract", "",
		"Contract interface for registry closures (default: the module flag decides)")
}

// RunFlags holds flags for scenario replay.
type RunFlags struct {
	FailFast bool
	Quiet    bool
}

// AddTo registers the run flags on the given cobra command.
func (f *RunFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.FailFast, "fail-fast", false,
		"Stop at the first scenario that fails")
	cmd.Flags().BoolVarP(&f.Quiet, "quiet", "q", false,
		"Only print the summary")
}

// DiffFlags holds flags for manifest comparison.
type DiffFlags struct {
	Color   string
	Summary bool
}

// AddTo registers the diff flags on the given cobra command.
func (f *DiffFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Color, "color", ColorAuto,
		"Colorize the report: auto, always, never")
	cmd.Flags().BoolVar(&f.Summary, "summary", false,
		"Print per-type changes instead of the structural report")
}

// Validate checks the color mode.
func (f *DiffFlags) Validate() error {
	switch f.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return oerrors.NewInvalidArgumentError(fmt.Sprintf("unknown color mode %q", f.Color),
			"--color", []string{ColorAuto, ColorAlways, ColorNever})
	}
}

// UseColor resolves the color mode against the terminal.
func (f *DiffFlags) UseColor() bool {
	switch f.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.IsTTY()
	}
}
