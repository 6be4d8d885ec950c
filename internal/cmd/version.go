package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show modkit version information.

Displays:
  - modkit version, commit, and build date
  - Versions of the linked manifest decoders`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()
			if format := currentSettings().Output; format != output.FormatTable {
				return output.Encode(w, format, info)
			}
			fmt.Fprintln(w, info.String())
			return nil
		},
	}
}
