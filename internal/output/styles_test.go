package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantBold bool
		wantFG   lipgloss.Color
		wantDim  bool
	}{
		{name: "added returns green", status: StatusAdded, wantFG: ColorGreen},
		{name: "ok returns green", status: StatusOK, wantFG: ColorGreen},
		{name: "rejected returns yellow", status: StatusRejected, wantFG: ColorYellow},
		{name: "missing returns faint", status: StatusMissing, wantDim: true},
		{name: "removed returns red", status: StatusRemoved, wantFG: ColorRed},
		{name: "failed returns bold red", status: StatusFailed, wantBold: true, wantFG: ColorBoldRed},
		{name: "unknown returns default unstyled", status: "unknown-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := StatusStyle(tt.status)
			if tt.wantBold {
				assert.True(t, style.GetBold(), "expected bold")
			}
			if tt.wantFG != "" {
				assert.Equal(t, tt.wantFG, style.GetForeground(), "foreground color mismatch")
			}
			if tt.wantDim {
				assert.True(t, style.GetFaint(), "expected faint")
			}
		})
	}
}

func TestFormatStepLine(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		typeName string
		status   string
	}{
		{"add", "add", "Derived", StatusAdded},
		{"rejected add", "add", "Base", StatusRejected},
		{"long type name", "remove", strings.Repeat("X", 60), StatusRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := FormatStepLine(tt.action, tt.typeName, tt.status)
			assert.Contains(t, line, "s:")
			assert.Contains(t, line, tt.action)
			assert.Contains(t, line, tt.typeName)
			assert.Contains(t, line, tt.status)
			assert.Contains(t, line, "  ", "at least two spaces before status")
		})
	}
}

func TestFormatCheckmark(t *testing.T) {
	out := FormatCheckmark("scenario passed")
	assert.Contains(t, out, "✔")
	assert.Contains(t, out, "scenario passed")
}
