package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"plazo/internal/model"
)

// pickerDebounce is how long typing must pause before the picker
// actually queries the store.
const pickerDebounce = 250 * time.Millisecond

type pickerDebounceMsg struct {
	seq int
}

type pickerResultsMsg struct {
	seq   int
	tasks []model.Task
	err   error
}

// parentPicker is the "link to parent task" modal: a search input with
// debounced lookups plus a result cursor.
type parentPicker struct {
	forTaskID string
	input     textinput.Model
	results   []model.Task
	idx       int

	// seq invalidates stale debounce ticks and search results after
	// further typing.
	seq int

	// search produces the command that eventually delivers a
	// pickerResultsMsg carrying the same seq.
	search func(seq int, query string) tea.Cmd
}

func newParentPicker(forTaskID string, search func(seq int, query string) tea.Cmd) parentPicker {
	in := textinput.New()
	in.Placeholder = "Buscar tarea…"
	in.CharLimit = 120
	in.Width = 40
	in.Focus()
	return parentPicker{forTaskID: forTaskID, input: in, search: search}
}

// Update handles typing and result navigation. Selection (enter) and
// dismissal (esc) are left to the app model.
func (p parentPicker) Update(msg tea.Msg) (parentPicker, tea.Cmd) {
	switch msg := msg.(type) {
	case pickerDebounceMsg:
		if msg.seq != p.seq {
			// Superseded by further typing.
			return p, nil
		}
		q := strings.TrimSpace(p.input.Value())
		if q == "" {
			p.results = nil
			p.idx = 0
			return p, nil
		}
		return p, p.search(p.seq, q)

	case pickerResultsMsg:
		if msg.seq != p.seq || msg.err != nil {
			return p, nil
		}
		p.results = p.filterSelf(msg.tasks)
		if p.idx >= len(p.results) {
			p.idx = 0
		}
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			if p.idx > 0 {
				p.idx--
			}
			return p, nil
		case tea.KeyDown:
			if p.idx < len(p.results)-1 {
				p.idx++
			}
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.seq++
		seq := p.seq
		return p, tea.Batch(cmd, tea.Tick(pickerDebounce, func(time.Time) tea.Msg {
			return pickerDebounceMsg{seq: seq}
		}))
	}
	return p, cmd
}

// filterSelf drops the task being linked; a task cannot be its own parent.
func (p parentPicker) filterSelf(tasks []model.Task) []model.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != p.forTaskID {
			out = append(out, t)
		}
	}
	return out
}

// Selected returns the highlighted result, if any.
func (p parentPicker) Selected() (model.Task, bool) {
	if p.idx < 0 || p.idx >= len(p.results) {
		return model.Task{}, false
	}
	return p.results[p.idx], true
}

func (p parentPicker) View() string {
	var b strings.Builder
	b.WriteString("Vincular a tarea padre\n\n")
	b.WriteString(p.input.View())
	b.WriteByte('\n')
	if len(p.results) == 0 {
		if strings.TrimSpace(p.input.Value()) != "" {
			b.WriteString(styleMuted().Render("sin resultados"))
		}
		return b.String()
	}
	for i, t := range p.results {
		line := t.Title + " " + formatDue(t.DueDate, nil)
		if i == p.idx {
			line = "> " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(styleMuted().Render("enter vincular · esc cancelar"))
	return b.String()
}
