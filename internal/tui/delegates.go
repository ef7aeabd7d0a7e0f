package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"plazo/internal/model"
)

type compactDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactDelegate() compactDelegate {
	return compactDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactDelegate) Height() int  { return 1 }
func (d compactDelegate) Spacing() int { return 0 }
func (d compactDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	fmt.Fprint(w, style.Render(padOrCut(txt, contentW)))
}

// taskDelegate renders one task row: status glyph, title, priority badge
// and due label.
type taskDelegate struct {
	selected lipgloss.Style
}

func newTaskDelegate() taskDelegate {
	return taskDelegate{
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d taskDelegate) Height() int  { return 1 }
func (d taskDelegate) Spacing() int { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}
	row, ok := item.(taskRowItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}
	t := row.task

	glyph := "[ ]"
	switch {
	case t.Status == model.StatusCompleted:
		glyph = "[x]"
	case t.Status == model.StatusAnulado:
		glyph = "[-]"
	case !t.Enabled:
		glyph = "[·]" // blocked behind its parent
	}

	badge := priorityStyle(t.Priority).Render(string(t.Priority))
	due := styleMuted().Render(formatDueLabel(t.DueDate, t.DueTime))
	tags := styleMuted().Render(tagNames(t.Tags))

	parts := []string{glyph, t.Title, badge}
	if due != "" {
		parts = append(parts, due)
	}
	if tags != "" {
		parts = append(parts, tags)
	}
	line := strings.Join(parts, " ")

	if index == m.Index() {
		// Strip per-part colors so the selection bar stays uniform.
		line = d.selected.Render(padOrCut(xansi.Strip(line), contentW))
	} else {
		line = padOrCut(line, contentW)
	}
	fmt.Fprint(w, line)
}

func padOrCut(line string, width int) string {
	lineW := xansi.StringWidth(line)
	if lineW < width {
		return line + strings.Repeat(" ", width-lineW)
	}
	if lineW > width {
		return xansi.Cut(line, 0, width)
	}
	return line
}
