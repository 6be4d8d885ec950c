package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/modkit/internal/cmdutil"
	"github.com/opmodel/modkit/internal/config"
	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the modkit configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. Values satisfy the configuration schema

The config path is resolved using precedence:
  --config flag > MODKIT_CONFIG env > ~/.modkit/config.yaml

Examples:
  # Validate default configuration
  modkit config vet

  # Validate custom config path
  modkit config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathValue, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: configFlag,
	})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path")
	}
	configPath := pathValue.Value

	output.Debug("validating config",
		"path", configPath,
		"source", pathValue.Source,
	)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &oerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: configPath,
			Hint:     "Run 'modkit config init' to create default configuration",
			Cause:    oerrors.ErrNotFound,
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateFile(configPath); err != nil {
		var configErrs config.ValidationErrors
		if errors.As(err, &configErrs) {
			cmdutil.PrintValidationError("configuration is invalid: "+configPath, err)
			return &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
		}
		return oerrors.NewValidationError(err.Error(), configPath, "", "Check the YAML syntax")
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + configPath))
	return nil
}
