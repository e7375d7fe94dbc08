package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ListItem is one numbered row of a listing.
type ListItem struct {
	Label  string
	Detail string
}

// NumberedList renders rows as "1) label  detail", ids starting at 1.
type NumberedList struct {
	Items       []ListItem
	Width       int
	NumberStyle lipgloss.Style
	NormalStyle lipgloss.Style
	DetailStyle lipgloss.Style
}

// NewNumberedList creates a list with the default styles of r.
func NewNumberedList(r *lipgloss.Renderer, items []ListItem) NumberedList {
	return NumberedList{
		Items:       items,
		Width:       60,
		NumberStyle: r.NewStyle().Foreground(lipgloss.Color("212")),
		NormalStyle: r.NewStyle(),
		DetailStyle: r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// View renders the list, one row per line
func (l NumberedList) View() string {
	var sb strings.Builder
	for i, item := range l.Items {
		sb.WriteString(l.NumberStyle.Render(fmt.Sprintf("%d)", i+1)))
		sb.WriteString(" ")
		sb.WriteString(l.NormalStyle.Render(truncate(item.Label, l.Width)))
		if item.Detail != "" {
			sb.WriteString("  ")
			sb.WriteString(l.DetailStyle.Render(item.Detail))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncate shortens s to maxLen runes, marking the cut with "..."
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 3 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
