package cmd

import (
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for modkit.`,
	}

	for _, sub := range []*cobra.Command{NewConfigInitCmd(), NewConfigVetCmd()} {
		sub.Annotations = map[string]string{skipSettingsAnnotation: "true"}
		cmd.AddCommand(sub)
	}

	return cmd
}
