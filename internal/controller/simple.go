package controller

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/remix/internal/model"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySummary prints the run counters and per-module patch results.
func (s *SimpleUI) DisplaySummary(outcome m.RunOutcome, patches []m.PatchResult) error {
	s.printf("%s\n", headerStyle.Render("Bundle summary"))
	s.printf("\n%s", renderOutcomeTable(outcome))

	if len(patches) > 0 {
		s.printf("\n%s\n", headerStyle.Render("Binary modules"))
		s.printf("\n%s", renderPatchTable(patches))
	}

	if outcome.Failed > 0 {
		s.printf("\n%s\n", warnStyle.Render(fmt.Sprintf("%d item(s) failed, see log", outcome.Failed)))
	} else {
		s.printf("\n%s\n", okStyle.Render("All items processed"))
	}

	return nil
}

func renderOutcomeTable(outcome m.RunOutcome) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Action", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	table.Append([]string{"Transformed", fmt.Sprintf("%d", outcome.Transformed)})
	table.Append([]string{"Copied", fmt.Sprintf("%d", outcome.Copied)})
	table.Append([]string{"Skipped", fmt.Sprintf("%d", outcome.Skipped)})
	table.Append([]string{"Patched", fmt.Sprintf("%d", outcome.Patched)})
	table.Append([]string{"Failed", fmt.Sprintf("%d", outcome.Failed)})

	table.SetFooter([]string{"Entries", fmt.Sprintf("%d", outcome.Entries())})
	table.Render()

	return tableBuffer.String()
}

func renderPatchTable(patches []m.PatchResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Module", "Header", "Appended", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, patch := range patches {
		table.Append([]string{
			patch.Module,
			fmt.Sprintf("%t", patch.HeaderLocated),
			fmt.Sprintf("%d", patch.BytesAppended),
			patchStatus(patch),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func patchStatus(patch m.PatchResult) string {
	switch {
	case patch.OK:
		return okStyle.Render("patched")
	case patch.Err != nil:
		return failStyle.Render("failed")
	default:
		return warnStyle.Render("missing")
	}
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.cmd.Printf(format, args...)
}
