package cmdutil

import (
	"errors"
	"fmt"
	"io"

	"github.com/opmodel/modkit/internal/config"
	"github.com/opmodel/modkit/internal/manifest"
	"github.com/opmodel/modkit/internal/output"
	"github.com/opmodel/modkit/internal/scenario"
)

// PrintValidationError prints a validation failure in a user-friendly format.
// Manifest and config errors print one line per field; anything else falls
// back to the key-value log format.
func PrintValidationError(msg string, err error) {
	var manifestErr *manifest.ValidationError
	var configErrs config.ValidationErrors

	switch {
	case errors.As(err, &manifestErr):
		where := manifestErr.Source
		if where == "" {
			where = "manifests"
		}
		output.Error(fmt.Sprintf("%s: %s", msg, where))
		for _, fe := range manifestErr.Errs {
			output.Error(fmt.Sprintf("  %s: %s", fe.Field, fe.ErrorBody()))
		}
	case errors.As(err, &configErrs):
		output.Error(msg)
		for _, ce := range configErrs {
			output.Error(fmt.Sprintf("  %s: %s", ce.Field, ce.Message))
		}
	default:
		output.Error(msg, "error", err)
	}
}

// WriteRunSummary writes a table with one row per scenario result.
func WriteRunSummary(w io.Writer, results []*scenario.Result) {
	tbl := output.NewTable("SCENARIO", "TARGET", "STEPS", "FAILED", "HOOKS")
	for _, r := range results {
		hooks := 0
		for _, n := range r.Hooks {
			hooks += n
		}
		tbl.Row(r.Name, string(r.Target), fmt.Sprint(len(r.Steps)), fmt.Sprint(r.Failed), fmt.Sprint(hooks))
	}
	fmt.Fprintln(w, tbl.String())
}
