package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/opmodel/modkit/internal/cmdutil"
	oerrors "github.com/opmodel/modkit/internal/errors"
	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/internal/scenario"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var rf cmdutil.RunFlags

	cmd := &cobra.Command{
		Use:   "run <scenario>...",
		Short: "Replay module scenarios",
		Long: `Replay scenario files against per-owner collections or a shared registry.

Each scenario starts from a fresh cache and fresh storage. Every step runs
even after an expectation fails; the command exits with a validation error
when any expectation did not hold.

Gets without an explicit match use --match; registry scenarios without a
cleanup policy use --cleanup.

Examples:
  # Replay one scenario
  modkit run scenarios/collection.yaml --domain core.yaml --domain game.yaml

  # Replay several, stopping at the first failure
  modkit run scenarios/*.yaml --fail-fast

  # Encode the results
  modkit run scenarios/registry.yaml -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, args, &rf)
		},
	}

	rf.AddTo(cmd)
	return cmd
}

func runScenarios(cmd *cobra.Command, paths []string, rf *cmdutil.RunFlags) error {
	ctx := cmd.Context()
	s := currentSettings()
	w := cmd.OutOrStdout()

	domains, err := cmdutil.LoadDomains(ctx, s.Domains)
	if err != nil {
		return err
	}

	opts := []scenario.Option{
		scenario.WithDefaultMatch(s.Match),
		scenario.WithCleanupPolicy(s.Cleanup),
	}
	if provider != nil {
		opts = append(opts, scenario.WithTracer(provider.Tracer()))
	}
	table := s.Output == output.FormatTable
	if table && !rf.Quiet {
		opts = append(opts, scenario.WithOutput(w))
	}
	runner := scenario.NewRunner(domains, opts...)

	var (
		results []*scenario.Result
		failed  []error
	)
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}
		output.Debug("scenario loaded", "path", path, "name", sc.Name, "steps", len(sc.Steps))

		if table && !rf.Quiet {
			fmt.Fprintln(w, output.StyleSummary.Render(sc.Name))
		}
		result, err := runner.Run(ctx, sc)
		if result == nil {
			// Planning failed; nothing ran.
			return err
		}
		results = append(results, result)
		if err != nil {
			failed = append(failed, err)
			output.Debug("scenario failed", "name", sc.Name, "error", err)
			if rf.FailFast {
				break
			}
		}
	}

	if err := writeResults(w, s.Output, results, rf.Quiet); err != nil {
		return err
	}

	if len(failed) > 0 {
		for _, err := range failed {
			output.Error("scenario failed", "error", err)
		}
		return &oerrors.ExitError{
			Code:    oerrors.ExitValidationError,
			Err:     errors.Join(failed...),
			Printed: true,
		}
	}
	return nil
}

func writeResults(w io.Writer, format output.OutputFormat, results []*scenario.Result, quiet bool) error {
	if format != output.FormatTable {
		return output.Encode(w, format, results)
	}
	if !quiet {
		fmt.Fprintln(w)
	}
	cmdutil.WriteRunSummary(w, results)
	return nil
}
