package output

import (
	"fmt"
	"strings"
)

// ModifiedItem is a changed entry and its indented detail lines.
type ModifiedItem struct {
	Name   string
	Detail []string
}

// RenderChanges renders added, removed and modified entries, each section
// only when non-empty, followed by a summary line.
func RenderChanges(added, removed []string, modified []ModifiedItem) string {
	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		return "No changes detected."
	}

	addStyle := StatusStyle(StatusAdded)
	removeStyle := StatusStyle(StatusRemoved)
	modifyStyle := StatusStyle(StatusRejected)

	var sb strings.Builder

	if len(added) > 0 {
		sb.WriteString(addStyle.Render("Added:"))
		sb.WriteString("\n")
		for _, name := range added {
			sb.WriteString("  + " + addStyle.Render(name) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(removed) > 0 {
		sb.WriteString(removeStyle.Render("Removed:"))
		sb.WriteString("\n")
		for _, name := range removed {
			sb.WriteString("  - " + removeStyle.Render(name) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(modified) > 0 {
		sb.WriteString(modifyStyle.Render("Modified:"))
		sb.WriteString("\n")
		for _, mod := range modified {
			sb.WriteString("  ~ " + modifyStyle.Render(mod.Name) + "\n")
			for _, line := range mod.Detail {
				sb.WriteString("    " + StyleDim.Render(line) + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary: ")
	sb.WriteString(ChangeSummary(len(added), len(removed), len(modified)))
	return sb.String()
}

// ChangeSummary returns e.g. "1 added, 2 modified".
func ChangeSummary(added, removed, modified int) string {
	if added == 0 && removed == 0 && modified == 0 {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d added", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", removed))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	return strings.Join(parts, ", ")
}
