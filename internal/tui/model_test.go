package tui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mikanfactory/sudare/internal/model"
)

func pickerConfig() *model.Config {
	return &model.Config{
		Groups: []model.Group{
			{
				Name: "dev",
				Bundles: []model.Bundle{
					{Group: "dev", Name: "frontend", Commands: model.Command{"npm run dev"}},
					{Group: "dev", Name: "backend", Commands: model.Command{"cargo run"}},
				},
			},
		},
		Workspaces: []model.Workspace{{Name: "api"}},
		Servers:    []model.Server{{Name: "staging", Host: "deploy@staging"}},
	}
}

func labels(items []Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestBuildItems(t *testing.T) {
	items := buildItems(pickerConfig(), "")

	want := []string{"Bundles", "dev.backend", "dev.frontend", "Workspaces", "api", "Servers", "staging"}
	if got := labels(items); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}

	for _, it := range items {
		if it.Kind == ItemKindSection && it.Selectable {
			t.Errorf("section %q is selectable", it.Label)
		}
		if it.Kind != ItemKindSection && !it.Selectable {
			t.Errorf("entry %q is not selectable", it.Label)
		}
	}
}

func TestBuildItems_Filter(t *testing.T) {
	items := buildItems(pickerConfig(), "front")

	want := []string{"Bundles", "dev.frontend"}
	if got := labels(items); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestBuildItems_FilterCaseInsensitive(t *testing.T) {
	items := buildItems(pickerConfig(), "STAGING")

	want := []string{"Servers", "staging"}
	if got := labels(items); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestBuildItems_NoMatches(t *testing.T) {
	if items := buildItems(pickerConfig(), "zzzz"); len(items) != 0 {
		t.Errorf("items = %v, want none", items)
	}
}

func TestNavigation(t *testing.T) {
	items := []Item{
		{Kind: ItemKindSection, Label: "Bundles"},
		{Kind: ItemKindBundle, Label: "a", Selectable: true},
		{Kind: ItemKindBundle, Label: "b", Selectable: true},
		{Kind: ItemKindSection, Label: "Servers"},
		{Kind: ItemKindServer, Label: "c", Selectable: true},
	}

	if got := firstSelectable(items); got != 1 {
		t.Errorf("firstSelectable = %d, want 1", got)
	}
	if got := moveCursor(items, 2, 1); got != 4 {
		t.Errorf("moveCursor skips the section header: got %d, want 4", got)
	}
	if got := moveCursor(items, 4, 1); got != 4 {
		t.Errorf("moveCursor at the end = %d, want 4", got)
	}
	if got := moveCursor(items, 4, -1); got != 2 {
		t.Errorf("moveCursor back = %d, want 2", got)
	}
	if got := moveCursor(items, 1, -1); got != 1 {
		t.Errorf("moveCursor at the start = %d, want 1", got)
	}
	if got := firstSelectable(nil); got != 0 {
		t.Errorf("firstSelectable on empty list = %d, want 0", got)
	}
}

func TestModel_EnterSelects(t *testing.T) {
	m := NewModel(pickerConfig())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(Model).Selected()
	if got == nil {
		t.Fatal("nothing selected after enter")
	}
	if got.Kind != ItemKindBundle || got.Label != "dev.backend" {
		t.Errorf("selected %+v, want the first bundle dev.backend", got)
	}
}

func TestModel_NavigateThenSelect(t *testing.T) {
	m := NewModel(pickerConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	final, _ := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := final.(Model).Selected()
	if got == nil {
		t.Fatal("nothing selected")
	}
	if got.Label != "dev.frontend" {
		t.Errorf("selected %q, want dev.frontend", got.Label)
	}
}

func TestModel_QuitWithoutSelection(t *testing.T) {
	m := NewModel(pickerConfig())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if updated.(Model).Selected() != nil {
		t.Error("q should not select anything")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestModel_FilterNarrowsItems(t *testing.T) {
	m := NewModel(pickerConfig())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	typed, _ := next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	typed, _ = typed.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	typed, _ = typed.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	filtered := typed.(Model)
	want := []string{"Servers", "staging"}
	if got := labels(filtered.items); !reflect.DeepEqual(got, want) {
		t.Errorf("filtered labels = %v, want %v", got, want)
	}

	// Esc clears the filter and restores the full list.
	cleared, _ := filtered.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := len(cleared.(Model).items); got != 7 {
		t.Errorf("items after esc = %d, want 7", got)
	}
}
