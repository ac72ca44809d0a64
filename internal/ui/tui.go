// Package ui provides an optional terminal interface for browsing tasks.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nvieira/todo-cli/internal/render"
	"github.com/nvieira/todo-cli/internal/store"
	"github.com/nvieira/todo-cli/internal/task"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Run starts the read-only task viewer.
func Run(ctx context.Context, s *store.Store, color bool) error {
	if !render.IsTTY(os.Stdout) {
		return fmt.Errorf("ui requires a TTY")
	}

	model := &uiModel{store: s, color: color, filter: task.StatusAll}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type uiModel struct {
	store    *store.Store
	color    bool
	tasks    []task.Task
	loadErr  error
	filter   task.StatusFilter
	showHelp bool
}

func (m *uiModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "a":
			m.filter = task.StatusAll
			return m, nil
		case "p":
			m.filter = task.StatusPending
			return m, nil
		case "d":
			m.filter = task.StatusDone
			return m, nil
		}
	}
	return m, nil
}

func (m *uiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("todo") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errStyle.Render("Error loading tasks:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}

	if m.filter != task.StatusAll {
		b.WriteString(filterStyle.Render(fmt.Sprintf("Filter: %s (a to clear)", m.filter)) + "\n\n")
	}

	views := task.Filter(m.tasks, task.Query{Status: m.filter}, task.Today())
	switch {
	case len(m.tasks) == 0:
		b.WriteString("No tasks yet.\n\n")
	case len(views) == 0:
		b.WriteString("No tasks match the current filter.\n\n")
	default:
		var list strings.Builder
		render.New(&list, m.color).TaskList(views, task.Today())
		b.WriteString(list.String())
		b.WriteString("\n")
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("%d of %d tasks shown", len(views), len(m.tasks))) + "\n")
	writeFooter(&b)
	return b.String()
}

func (m *uiModel) refresh() {
	tasks, err := m.store.Load()
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keys:\n")
	b.WriteString("  a       show all tasks\n")
	b.WriteString("  p       show pending tasks\n")
	b.WriteString("  d       show done tasks\n")
	b.WriteString("  r, f5   reload the task file\n")
	b.WriteString("  h, ?    toggle this help\n")
	b.WriteString("  q       quit\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("a/p/d filter · r reload · ? help · q quit") + "\n")
}
