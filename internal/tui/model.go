// Package tui implements the interactive picker shown when sudare is run
// without a bundle, workspace, or server selection.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/mikanfactory/sudare/internal/model"
)

// ItemKind identifies what a picker entry launches.
type ItemKind int

const (
	ItemKindSection ItemKind = iota
	ItemKindBundle
	ItemKindWorkspace
	ItemKindServer
)

// Item is one row in the picker list. Section headers are not selectable.
type Item struct {
	Kind       ItemKind
	Label      string
	Selectable bool
}

// Model is the BubbleTea model for the picker.
type Model struct {
	cfg       *model.Config
	items     []Item
	cursor    int
	filter    textinput.Model
	filtering bool
	selected  *Item
	quitting  bool
}

// NewModel builds the picker over the loaded config.
func NewModel(cfg *model.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{cfg: cfg, filter: ti}
	m.items = buildItems(cfg, "")
	m.cursor = firstSelectable(m.items)
	return m
}

// Selected returns the entry chosen with Enter, or nil if the picker was
// dismissed.
func (m Model) Selected() *Item {
	return m.selected
}

// buildItems flattens the config into picker rows, filtered by substring.
func buildItems(cfg *model.Config, filter string) []Item {
	filter = strings.ToLower(filter)
	match := func(s string) bool {
		return filter == "" || strings.Contains(strings.ToLower(s), filter)
	}

	var items []Item
	appendSection := func(header string, kind ItemKind, labels []string) {
		var matched []string
		for _, label := range labels {
			if match(label) {
				matched = append(matched, label)
			}
		}
		if len(matched) == 0 {
			return
		}
		items = append(items, Item{Kind: ItemKindSection, Label: header})
		for _, label := range matched {
			items = append(items, Item{Kind: kind, Label: label, Selectable: true})
		}
	}

	appendSection("Bundles", ItemKindBundle, cfg.BundlePaths())
	appendSection("Workspaces", ItemKindWorkspace, cfg.WorkspaceNames())
	appendSection("Servers", ItemKindServer, cfg.ServerNames())
	return items
}

// ZoneID returns the bubblezone mark id for the item at index i.
func ZoneID(i int) string {
	return fmt.Sprintf("picker-%d", i)
}

// moveCursor walks from current in the given direction (+1 or -1) to the
// nearest selectable item, staying put when none exists that way. Section
// headers are skipped.
func moveCursor(items []Item, current, dir int) int {
	for i := current + dir; i >= 0 && i < len(items); i += dir {
		if items[i].Selectable {
			return i
		}
	}
	return current
}

func firstSelectable(items []Item) int {
	if i := moveCursor(items, -1, 1); i >= 0 {
		return i
	}
	return 0
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateNormal(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for i, item := range m.items {
			if !item.Selectable {
				continue
			}
			if zone.Get(ZoneID(i)).InBounds(msg) {
				m.cursor = i
				m.selected = &m.items[i]
				m.quitting = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		m.cursor = moveCursor(m.items, m.cursor, 1)
	case "k", "up":
		m.cursor = moveCursor(m.items, m.cursor, -1)
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "enter":
		if m.cursor < len(m.items) && m.items[m.cursor].Selectable {
			m.selected = &m.items[m.cursor]
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.items = buildItems(m.cfg, "")
		m.cursor = firstSelectable(m.items)
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.items = buildItems(m.cfg, m.filter.Value())
	m.cursor = firstSelectable(m.items)
	return m, cmd
}
