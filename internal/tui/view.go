package tui

import (
	"strings"

	zone "github.com/lrstanley/bubblezone"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("sudare"))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(itemStyle.Render("nothing matches"))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		switch {
		case item.Kind == ItemKindSection:
			b.WriteString(sectionStyle.Render(item.Label))
		case i == m.cursor:
			b.WriteString(zone.Mark(ZoneID(i), itemSelectedStyle.Render("> "+item.Label)))
		default:
			b.WriteString(zone.Mark(ZoneID(i), itemStyle.Render(item.Label)))
		}
		b.WriteString("\n")
	}

	if m.filtering {
		b.WriteString(filterStyle.Render(m.filter.View()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: launch  /: filter  q: quit"))
	return zone.Scan(b.String())
}
