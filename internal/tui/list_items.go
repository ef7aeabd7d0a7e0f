package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"plazo/internal/model"
)

func newList(title, statusText string, items []list.Item) list.Model {
	l := list.New(items, newCompactDelegate(), 0, 0)
	l.Title = title
	l.SetStatusBarItemName(statusText, statusText)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	return l
}

// taskRowItem adapts a task for bubbles/list.
type taskRowItem struct {
	task model.Task
}

func (i taskRowItem) FilterValue() string { return i.task.Title }
func (i taskRowItem) Title() string       { return i.task.Title }

// expirationRowItem adapts a vencimiento for bubbles/list.
type expirationRowItem struct {
	exp model.Expiration
}

func (i expirationRowItem) FilterValue() string { return i.exp.Title }
func (i expirationRowItem) Title() string       { return i.exp.Title }

func taskItems(tasks []model.Task) []list.Item {
	out := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskRowItem{task: t})
	}
	return out
}

func expirationItems(exps []model.Expiration) []list.Item {
	out := make([]list.Item, 0, len(exps))
	for _, e := range exps {
		out = append(out, expirationRowItem{exp: e})
	}
	return out
}

func tagNames(tags []model.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, "#"+t.Name)
	}
	return strings.Join(names, " ")
}
