package report

import (
	"fmt"
	"strings"
	"time"

	"eosindex/internal/data/history"
	"eosindex/internal/engine/index"
	"eosindex/internal/engine/parser"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(12)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)
)

var summaryKinds = []struct {
	kind  string
	label string
}{
	{parser.KindFunction, "functions"},
	{parser.KindCallback, "callbacks"},
	{parser.KindStruct, "structs"},
	{parser.KindEnum, "enums"},
	{parser.KindDefine, "defines"},
	{parser.KindTypedef, "typedefs"},
}

// RenderSummary renders a boxed overview of a run for the terminal. previous
// is the run before this one, or nil when there is none.
func RenderSummary(doc *index.Document, run history.Run, previous *history.Run) string {
	counts := doc.Counts()

	var b strings.Builder
	b.WriteString(titleStyle.Render("EOS SDK index"))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s | %d headers | %s",
		run.SDKDir, run.FileCount, run.Duration.Round(time.Millisecond))))
	b.WriteString("\n\n")

	for _, k := range summaryKinds {
		line := labelStyle.Render(k.label) + countStyle.Render(fmt.Sprintf("%6d", counts[k.kind]))
		if previous != nil {
			if delta := counts[k.kind] - previous.Counts[k.kind]; delta != 0 {
				line += " " + changedStyle.Render(fmt.Sprintf("%+d", delta))
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if run.Digest != "" {
		b.WriteString("\n")
		status := "digest " + run.Digest
		if previous != nil && previous.Digest == run.Digest {
			status += " (unchanged)"
		}
		b.WriteString(statusStyle.Render(status))
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
