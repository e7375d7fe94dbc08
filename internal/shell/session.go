// Package shell runs the interactive jukebox session: it reads command
// lines, dispatches them through the command table and owns the playlist,
// history and terminal for the lifetime of the process.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jscyril/wavejukebox/internal/audio"
	"github.com/jscyril/wavejukebox/internal/config"
	"github.com/jscyril/wavejukebox/internal/editor"
	"github.com/jscyril/wavejukebox/internal/library"
	"github.com/jscyril/wavejukebox/internal/log"
	"github.com/jscyril/wavejukebox/internal/playlist"
	"github.com/jscyril/wavejukebox/internal/terminal"
	"github.com/jscyril/wavejukebox/internal/ui"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
	"github.com/jscyril/wavejukebox/pkg/events"
)

// Terminal is the input side of the session, shared by the line editor
// and the playback engine.
type Terminal interface {
	EnterRaw() error
	Restore() error
	Ready() (bool, error)
	ReadKey() (terminal.Key, error)
}

// Session is one interactive jukebox session.
type Session struct {
	cfg      *config.Config
	term     Terminal
	printer  *ui.Printer
	history  *editor.History
	editor   *editor.Editor
	playlist *audio.Queue
	engine   *audio.Engine
	scanner  *library.Scanner
	catalog  *library.Catalog

	commands []Command
	index    map[string]int

	closeOnce sync.Once
}

// New wires a session. bus may be nil.
func New(cfg *config.Config, term Terminal, out io.Writer, bus *events.EventBus) *Session {
	history := editor.NewHistory(cfg.HistorySize)
	s := &Session{
		cfg:      cfg,
		term:     term,
		printer:  ui.NewPrinter(out),
		history:  history,
		editor:   editor.New(term, out, history, cfg.MaxInput),
		playlist: playlist.New[*audio.WaveFile](),
		scanner:  library.NewScanner(cfg.ScanWorkers),
		catalog:  library.NewCatalog(),
		commands: defaultCommands(cfg.PauseKey(), cfg.SkipKey()),
	}
	s.engine = audio.NewEngine(audio.EngineConfig{
		Device:        cfg.Device,
		PeriodFrames:  cfg.PeriodFrames,
		BufferLatency: cfg.BufferLatency(),
		PauseKey:      cfg.PauseKey(),
		SkipKey:       cfg.SkipKey(),
	}, term, bus)
	s.engine.OnEvent = s.onEngineEvent

	s.index = make(map[string]int, len(s.commands)+len(aliases))
	for i, c := range s.commands {
		s.index[c.Name] = i
	}
	for alias, name := range aliases {
		s.index[alias] = s.index[name]
	}
	return s
}

// Engine returns the playback engine
func (s *Session) Engine() *audio.Engine { return s.engine }

// Playlist returns the play queue
func (s *Session) Playlist() *audio.Queue { return s.playlist }

// Catalog returns the last scan results
func (s *Session) Catalog() *library.Catalog { return s.catalog }

// History returns the command history
func (s *Session) History() *editor.History { return s.history }

// Commands returns the command table
func (s *Session) Commands() []Command {
	return append([]Command(nil), s.commands...)
}

// InitialScan scans the configured root and prints the results.
func (s *Session) InitialScan(ctx context.Context) {
	s.scan(ctx, s.cfg.ScanRoot)
	cmdFiles(ctx, s, "")
}

func (s *Session) scan(ctx context.Context, root string) {
	start := time.Now()
	files, errs := s.scanner.Collect(ctx, root, s.cfg.Pattern)
	for _, err := range errs {
		log.Warn("scan", "error", err)
	}
	s.catalog.Replace(root, s.cfg.Pattern, files)
	log.Info("scan complete", "root", root, "files", len(files), "errors", len(errs), "took", time.Since(start))
}

// Run reads and executes commands until exit, end of input or a fatal
// error. It returns nil on a normal exit.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.editor.ReadLine(s.cfg.Prompt)
		if err != nil {
			return err
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

// Execute dispatches one command line. Errors the user can correct are
// printed and swallowed; fatal errors and exit are returned.
func (s *Session) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	i, ok := s.index[name]
	if !ok {
		s.printer.Message(msgUnknownCommand)
		log.Debug("dispatch", "error", fmt.Errorf("%w: %s", playerrors.ErrUnknownCommand, name))
		return nil
	}

	err := s.commands[i].Handler(ctx, s, arg)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errExit), playerrors.IsFatal(err):
		return err
	default:
		log.Debug("command failed", "command", name, "arg", arg, "error", err)
		return nil
	}
}

// Close releases the history and the playlist and restores the terminal.
// It is safe to call more than once and from a signal handler goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.term.Restore(); err != nil {
			log.Warn("restore terminal", "error", err)
		}
		s.printer.Message("Releasing memory allocated for the commands history...")
		s.history.Clear()
		s.printer.Message("Releasing memory allocated for the playlist...")
		s.playlist.Wipe()
		s.engine.DiscardResume(nil)
		s.printer.Message("Exiting...")
	})
}
