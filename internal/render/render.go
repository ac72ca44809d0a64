// Package render formats tasks for terminal output.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nvieira/todo-cli/internal/task"
)

// Renderer writes task views and tag listings to a terminal.
type Renderer struct {
	out    io.Writer
	styles styles
}

type styles struct {
	position lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	high     lipgloss.Style
	medium   lipgloss.Style
	low      lipgloss.Style
	tag      lipgloss.Style
	due      lipgloss.Style
	count    lipgloss.Style
}

// New creates a renderer. When color is false every style renders plain text.
func New(out io.Writer, color bool) *Renderer {
	r := &Renderer{out: out}
	if color {
		r.styles = styles{
			position: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			done:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
			overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			high:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			low:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			due:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
			count:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		}
	}
	return r
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}

// TaskList prints one line per view, keeping original positions.
func (r *Renderer) TaskList(views []task.View, today task.Date) {
	width := 1
	for _, v := range views {
		if n := len(fmt.Sprint(v.Position)); n > width {
			width = n
		}
	}
	for _, v := range views {
		fmt.Fprintln(r.out, r.taskLine(v, today, width))
	}
}

func (r *Renderer) taskLine(v task.View, today task.Date, width int) string {
	t := v.Task

	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}

	text := t.Text
	if t.Completed {
		text = r.styles.done.Render(text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", r.styles.position.Render(fmt.Sprintf("%*d.", width, v.Position)), checkbox, text)

	b.WriteString("  ")
	b.WriteString(r.priorityLabel(t.Priority))

	for _, tag := range t.Tags {
		b.WriteString(" ")
		b.WriteString(r.styles.tag.Render("#" + tag))
	}

	if t.DueDate != nil {
		label := "due " + t.DueDate.String()
		if !t.Completed && t.DueDate.Before(today) {
			b.WriteString(" ")
			b.WriteString(r.styles.overdue.Render(label + " (overdue)"))
		} else {
			b.WriteString(" ")
			b.WriteString(r.styles.due.Render(label))
		}
	}

	return b.String()
}

func (r *Renderer) priorityLabel(p task.Priority) string {
	label := "(" + string(p) + ")"
	switch p {
	case task.PriorityHigh:
		return r.styles.high.Render(label)
	case task.PriorityLow:
		return r.styles.low.Render(label)
	default:
		return r.styles.medium.Render(label)
	}
}

// TagList prints each distinct tag with its task count.
func (r *Renderer) TagList(counts []task.TagCount) {
	for _, c := range counts {
		fmt.Fprintf(r.out, "%s %s\n",
			r.styles.tag.Render("#"+c.Name),
			r.styles.count.Render(fmt.Sprintf("(%d)", c.Count)))
	}
}
