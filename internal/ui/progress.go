package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar shows how far into a track playback got
type ProgressBar struct {
	Width       int
	Current     time.Duration
	Total       time.Duration
	BarChar     string
	EmptyChar   string
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewProgressBar creates a new progress bar
func NewProgressBar(r *lipgloss.Renderer, width int) ProgressBar {
	return ProgressBar{
		Width:       width,
		BarChar:     "#",
		EmptyChar:   "-",
		FilledStyle: r.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// View renders the bar followed by "MM:SS/MM:SS"
func (p ProgressBar) View() string {
	var percent float64
	if p.Total > 0 {
		percent = float64(p.Current) / float64(p.Total)
	}
	if percent > 1 {
		percent = 1
	}

	barWidth := p.Width - 12 // Leave room for time display
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(float64(barWidth) * percent)

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(p.FilledStyle.Render(strings.Repeat(p.BarChar, filled)))
	sb.WriteString(p.EmptyStyle.Render(strings.Repeat(p.EmptyChar, barWidth-filled)))
	sb.WriteString("] ")
	sb.WriteString(FormatDuration(p.Current))
	sb.WriteString("/")
	sb.WriteString(FormatDuration(p.Total))
	return sb.String()
}

// FormatDuration formats a duration as MM:SS
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}
