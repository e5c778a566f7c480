package cli

import (
	"fmt"
	"strings"
	"time"

	"eosindex/internal/engine/index"
	"eosindex/internal/engine/parser"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// kindFilters is the tab order of the kind filter. The empty kind shows all.
var kindFilters = []string{
	"",
	parser.KindFunction,
	parser.KindCallback,
	parser.KindStruct,
	parser.KindEnum,
	parser.KindDefine,
	parser.KindTypedef,
}

type declaration struct {
	kind    string
	name    string
	source  string
	comment string
	detail  string
}

func (d declaration) Title() string       { return d.name }
func (d declaration) Description() string { return d.kind + " in " + d.source }
func (d declaration) FilterValue() string { return d.name + " " + d.source }

type model struct {
	list       list.Model
	all        []declaration
	kindIdx    int
	showDetail bool
	fileCount  int
	digest     string
	lastUpdate time.Time
}

type documentMsg struct {
	doc       *index.Document
	fileCount int
	digest    string
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		height := msg.Height - v - 6
		if height < 5 {
			height = 5
		}
		m.list.SetSize(msg.Width-h, height)
	case documentMsg:
		m.all = declarations(msg.doc)
		m.fileCount = msg.fileCount
		m.digest = msg.digest
		m.lastUpdate = time.Now()
		m = m.applyKindFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	kind := "all"
	if k := kindFilters[m.kindIdx]; k != "" {
		kind = k
	}
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d headers | %d declarations | digest %s",
		m.lastUpdate.Format("15:04:05"), m.fileCount, len(m.all), m.digest))
	header := fmt.Sprintf("%s\n%s | showing %s\n", titleStyle("EOS SDK Declarations"), status, kindStyle.Render(kind))
	help := statusStyle.Render("tab: cycle kind | enter: details | esc: back | /: filter | q: quit")

	body := m.list.View()
	if m.showDetail {
		if d, ok := m.list.SelectedItem().(declaration); ok {
			body = renderDetail(d)
		}
	}
	return docStyle.Render(header + "\n" + help + "\n\n" + body)
}

func (m model) applyKindFilter() model {
	kind := kindFilters[m.kindIdx]
	items := make([]list.Item, 0, len(m.all))
	for _, d := range m.all {
		if kind == "" || d.kind == kind {
			items = append(items, d)
		}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
	m.showDetail = false
	return m
}

func renderDetail(d declaration) string {
	var b strings.Builder
	b.WriteString(kindStyle.Render(d.kind) + " " + d.name + "\n")
	b.WriteString(statusStyle.Render("source: "+d.source) + "\n")
	if d.comment != "" {
		b.WriteString("\n" + d.comment + "\n")
	}
	if d.detail != "" {
		b.WriteString("\n" + d.detail)
	}
	return detailStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Declarations"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

// declarations flattens a document in its serialized section order.
func declarations(doc *index.Document) []declaration {
	if doc == nil {
		return nil
	}
	var out []declaration
	for _, c := range doc.CallbackMethods {
		out = append(out, declaration{
			kind: parser.KindCallback, name: c.Name, source: c.Source, comment: c.Comment,
			detail: fmt.Sprintf("%s (*%s)(%s)", c.ReturnType, c.Name, joinParams(c.Params)),
		})
	}
	for _, d := range doc.Defines {
		name := d.Name
		if d.Parameters != nil {
			name += "(" + *d.Parameters + ")"
		}
		out = append(out, declaration{
			kind: parser.KindDefine, name: d.Name, source: d.Source, comment: d.Comment,
			detail: strings.TrimSpace("#define " + name + " " + d.Expression),
		})
	}
	for _, e := range doc.Enums {
		values := make([]string, 0, len(e.Values))
		for _, v := range e.Values {
			values = append(values, fmt.Sprintf("%s = %s", v.Name, v.Value))
		}
		out = append(out, declaration{
			kind: parser.KindEnum, name: e.Name, source: e.Source, comment: e.Comment,
			detail: strings.Join(values, "\n"),
		})
	}
	for _, f := range doc.Functions {
		out = append(out, declaration{
			kind: parser.KindFunction, name: f.Name, source: f.Source, comment: f.Comment,
			detail: fmt.Sprintf("%s %s(%s)", f.ReturnType, f.Name, joinParams(f.Params)),
		})
	}
	for _, s := range doc.Structs {
		fields := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			line := f.Type + " " + f.Name
			if f.RecommendedValue != "" {
				line += "  (set to " + f.RecommendedValue + ")"
			}
			fields = append(fields, line)
		}
		out = append(out, declaration{
			kind: parser.KindStruct, name: s.Name, source: s.Source, comment: s.Comment,
			detail: strings.Join(fields, "\n"),
		})
	}
	for _, t := range doc.Typedefs {
		out = append(out, declaration{
			kind: parser.KindTypedef, name: t.Name, source: t.Source, comment: t.Comment,
			detail: "typedef " + t.Type + " " + t.Name,
		})
	}
	return out
}

func joinParams(params []parser.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = strings.TrimSpace(p.Type + " " + p.Name)
	}
	return strings.Join(parts, ", ")
}
