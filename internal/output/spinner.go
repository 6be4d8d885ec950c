package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
)

// RunWithSpinner runs action while a spinner titled title is shown on stderr.
// Without a terminal, or with debug logging on, the action runs plainly so log
// lines are not interleaved with spinner frames.
func RunWithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !IsTTY() || logger.GetLevel() <= log.DebugLevel {
		return action(ctx)
	}

	var actionErr error
	err := spinner.New().
		Context(ctx).
		Title(title).
		Action(func() {
			actionErr = action(ctx)
		}).
		Run()
	if err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	return actionErr
}
