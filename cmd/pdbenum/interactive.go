package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/pdbtypes/symtab"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 20

type modelState int

const (
	stateSelectEnum modelState = iota
	stateFilter
	stateShowEnum
)

type interactiveModel struct {
	err      error
	log      *zap.Logger
	report   *report
	cfg      config
	filter   textinput.Model
	visible  []*symtab.Symbol
	selected int
	offset   int
	state    modelState
}

type loadedMsg struct {
	err    error
	report *report
}

func newInteractiveModel(cfg config, log *zap.Logger) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "enum or enumerator name"
	ti.Width = 40

	return &interactiveModel{
		cfg:    cfg,
		log:    log,
		filter: ti,
		state:  stateSelectEnum,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadStream
}

func (m *interactiveModel) loadStream() tea.Msg {
	rep, err := load(m.cfg, m.log)
	return loadedMsg{err: err, report: rep}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectEnum && m.selected > 0 {
				m.selected--
				m.scroll()
			}

		case "down", "j":
			if m.state == stateSelectEnum && m.selected < len(m.visible)-1 {
				m.selected++
				m.scroll()
			}

		case "/":
			if m.state == stateSelectEnum {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "enter":
			switch m.state {
			case stateSelectEnum:
				if len(m.visible) > 0 {
					m.state = stateShowEnum
				}
			case stateShowEnum:
				m.state = stateSelectEnum
			}

		case "esc":
			if m.state == stateShowEnum {
				m.state = stateSelectEnum
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.report = msg.report
		m.applyFilter()
	}

	return m, nil
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
			m.applyFilter()
		}
		m.filter.Blur()
		m.state = stateSelectEnum
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter keeps the symbols whose name or any enumerator name contains
// the filter text, case-insensitively.
func (m *interactiveModel) applyFilter() {
	if m.report == nil {
		return
	}
	m.visible = filterSymbols(m.report.Symbols, m.filter.Value())
	m.selected = 0
	m.offset = 0
}

func filterSymbols(syms []*symtab.Symbol, q string) []*symtab.Symbol {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return syms
	}
	var out []*symtab.Symbol
	for _, s := range syms {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
			continue
		}
		for _, f := range s.Type.Fields {
			if strings.Contains(strings.ToLower(f.Name), q) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func (m *interactiveModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+pageSize {
		m.offset = m.selected - pageSize + 1
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.report == nil {
		return "Loading type stream..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("PDB Enums"))
	b.WriteString(" ")
	b.WriteString(m.cfg.path)
	b.WriteString("\n\n")

	if m.report.Unavailable != "" {
		b.WriteString(errorStyle.Render("No type information: " + m.report.Unavailable))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	st := termStyles()
	switch m.state {
	case stateSelectEnum, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d of %d enums:\n\n", len(m.visible), len(m.report.Symbols))
		end := min(m.offset+pageSize, len(m.visible))
		for i := m.offset; i < end; i++ {
			s := m.visible[i]
			line := fmt.Sprintf("%s (%d)", s.Name, len(s.Type.Fields))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + nameStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter show • / filter • q quit"))
		}

	case stateShowEnum:
		e := m.visible[m.selected].Type
		b.WriteString(formatEnum(e, st))
		b.WriteString("\n")
		if e.UniqueName != "" {
			b.WriteString(typeStyle.Render(e.UniqueName))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "  %s = %s\n", nameStyle.Render(f.Name), valueStyle.Render(formatValue(e, f.Value)))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func runInteractive(cfg config, log *zap.Logger) error {
	p := tea.NewProgram(newInteractiveModel(cfg, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
