// Package ui renders the jukebox's console output with lipgloss styles.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/wavejukebox/api"
)

// ClearSequence homes the cursor and clears the screen.
const ClearSequence = "\x1b[1;1H\x1b[2J"

// HelpEntry is one line of the help listing.
type HelpEntry struct {
	Usage       string
	Description string
}

// TrackInfo is what the info command shows about a playlist entry.
type TrackInfo struct {
	Position      int
	Name          string
	Path          string
	Channels      int
	SampleRate    int
	BitsPerSample int
	Frames        int
	Duration      time.Duration
	// Resume is the paused position, if any.
	Resume   time.Duration
	IsPaused bool
}

// Printer writes styled output. Colors are used only when out is a terminal.
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer

	TitleStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	AccentStyle  lipgloss.Style
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:          out,
		renderer:     r,
		TitleStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		MutedStyle:   r.NewStyle().Foreground(lipgloss.Color("240")),
		ErrorStyle:   r.NewStyle().Foreground(lipgloss.Color("196")),
		SuccessStyle: r.NewStyle().Foreground(lipgloss.Color("42")),
		AccentStyle:  r.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer { return p.out }

// Message prints a plain line
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Success prints a confirmation line
func (p *Printer) Success(format string, args ...any) {
	p.styled(p.SuccessStyle, fmt.Sprintf(format, args...))
}

// Error prints a failure line
func (p *Printer) Error(format string, args ...any) {
	p.styled(p.ErrorStyle, fmt.Sprintf(format, args...))
}

// Status prints a playback status line such as "Currently playing".
func (p *Printer) Status(format string, args ...any) {
	p.styled(p.AccentStyle, fmt.Sprintf(format, args...))
}

// styled renders each line on its own so lipgloss does not pad them to a block.
func (p *Printer) styled(style lipgloss.Style, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(p.out, style.Render(line))
	}
}

// ClearScreen clears the terminal
func (p *Printer) ClearScreen() {
	fmt.Fprint(p.out, ClearSequence)
}

// Files prints scan results in listing order with 1-based ids.
func (p *Printer) Files(files []api.FileInfo, pattern string) {
	var sb strings.Builder
	sb.WriteString(p.TitleStyle.Render("| -- SEARCH RESULTS -- |"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "-Results no: %d\n", len(files))
	sb.WriteString("-Sorted: alphabetically\n")
	fmt.Fprintf(&sb, "-Pattern: %q\n\n", pattern)

	items := make([]ListItem, len(files))
	for i, f := range files {
		items[i] = ListItem{Label: f.Name}
		if f.Valid {
			items[i].Detail = FormatDuration(f.Duration)
		} else {
			items[i].Detail = "unreadable"
		}
	}
	sb.WriteString(NewNumberedList(p.renderer, items).View())
	fmt.Fprint(p.out, sb.String())
}

// Playlist prints queued track names in play order.
func (p *Printer) Playlist(names []string) {
	items := make([]ListItem, len(names))
	for i, n := range names {
		items[i] = ListItem{Label: n}
	}
	fmt.Fprintln(p.out, p.TitleStyle.Render("| --  PLAYLIST -- |"))
	fmt.Fprint(p.out, NewNumberedList(p.renderer, items).View())
}

// Help prints the command list
func (p *Printer) Help(entries []HelpEntry) {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Usage))
	}
	var sb strings.Builder
	sb.WriteString(p.TitleStyle.Render("|| -- COMMANDS LIST -- |"))
	sb.WriteString("\n\n")
	sb.WriteString(p.MutedStyle.Render("? - Optional parameter"))
	sb.WriteString("\n")
	for _, e := range entries {
		sb.WriteString(p.TitleStyle.Render(fmt.Sprintf("%-*s", width, e.Usage)))
		sb.WriteString("   ")
		sb.WriteString(e.Description)
		sb.WriteString("\n")
	}
	fmt.Fprint(p.out, sb.String())
}

// TrackInfo prints header details of a queued track
func (p *Printer) TrackInfo(info TrackInfo) {
	var sb strings.Builder
	sb.WriteString(p.TitleStyle.Render(fmt.Sprintf("%d) %s", info.Position, info.Name)))
	sb.WriteString("\n")
	row := func(k string, v any) {
		sb.WriteString(p.MutedStyle.Render(fmt.Sprintf("%-14s", k)))
		fmt.Fprintf(&sb, "%v\n", v)
	}
	row("Path", info.Path)
	row("NumChannels", info.Channels)
	row("SampleRate", info.SampleRate)
	row("BitsPerSample", info.BitsPerSample)
	row("Frames", info.Frames)
	row("Duration", FormatDuration(info.Duration))
	if info.IsPaused {
		bar := NewProgressBar(p.renderer, 50)
		bar.Current = info.Resume
		bar.Total = info.Duration
		row("Paused at", bar.View())
	}
	fmt.Fprint(p.out, sb.String())
}
