package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jscyril/wavejukebox/api"
	"github.com/jscyril/wavejukebox/internal/audio"
	"github.com/jscyril/wavejukebox/internal/log"
	"github.com/jscyril/wavejukebox/internal/ui"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// Handler runs a command. arg is the first word after the command name,
// or "" when there is none.
type Handler func(ctx context.Context, s *Session, arg string) error

// Command is one entry of the command table.
type Command struct {
	Name        string
	Usage       string
	Description string
	Handler     Handler
}

// errExit ends the session loop normally.
var errExit = errors.New("exit requested")

const (
	msgUnknownCommand = "Unknown command. Type 'help' to see all the available commands"
	msgEmptyPlaylist  = "Playlist is empty!"
	msgInvalidFileID  = "Invalid ID\nUse the command 'files' to see all the possible IDs"
	msgInvalidListID  = "Invalid ID\nUse the command 'list' to see all the possible IDs"
)

// defaultCommands returns the command table in help order.
func defaultCommands(pauseKey, skipKey rune) []Command {
	return []Command{
		{"help", "help", "Show this helper", cmdHelp},
		{"scan", "scan <startdir?>", "Scan the filesystem (starting at <startdir> or the configured root) looking for wave files and show results", cmdScan},
		{"files", "files", "Show all the files found in the previous scan", cmdFiles},
		{"list", "list", "Show all the files in the playlist", cmdList},
		{"add", "add <file_id>", "Add a file (<file_id> from the list shown by 'files') to the playlist", cmdAdd},
		{"rm", "rm <playlist_id|*>", "Remove a file (<playlist_id> from the list shown by 'list') from the playlist. 'rm *' removes all", cmdRemove},
		{"info", "info <playlist_id>", "Show the wave header of a file in the playlist", cmdInfo},
		{"play", "play", fmt.Sprintf("Play the files on the playlist by order of insertion. Typing '%c' while playing will pause and typing '%c' will skip to the next file", pauseKey, skipKey), cmdPlay},
		{"clear", "clear", "Clear console", cmdClear},
		{"exit", "exit", "Safely shutdown the application", cmdExit},
	}
}

// aliases maps alternative names onto table entries.
var aliases = map[string]string{
	"playlist": "list",
	"quit":     "exit",
}

func cmdHelp(ctx context.Context, s *Session, arg string) error {
	entries := make([]ui.HelpEntry, len(s.commands))
	for i, c := range s.commands {
		entries[i] = ui.HelpEntry{Usage: c.Usage, Description: c.Description}
	}
	s.printer.Help(entries)
	return nil
}

func cmdScan(ctx context.Context, s *Session, arg string) error {
	root := arg
	if root == "" {
		root = s.cfg.ScanRoot
	}
	s.scan(ctx, root)
	return cmdFiles(ctx, s, "")
}

func cmdFiles(ctx context.Context, s *Session, arg string) error {
	_, pattern := s.catalog.Root()
	if pattern == "" {
		pattern = s.cfg.Pattern
	}
	s.printer.Files(s.catalog.All(), pattern)
	return nil
}

func cmdList(ctx context.Context, s *Session, arg string) error {
	names := make([]string, 0, s.playlist.Len())
	for _, w := range s.playlist.All() {
		names = append(names, w.Name())
	}
	s.printer.Playlist(names)
	if len(names) == 0 {
		s.printer.Message(msgEmptyPlaylist)
	}
	return nil
}

func cmdAdd(ctx context.Context, s *Session, arg string) error {
	if arg == "" {
		s.printer.Error("You need to specify the file ID. Ex: add 1\nUse the command 'files' to see all the possible IDs")
		return playerrors.ErrMissingArgument
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		s.printer.Error(msgInvalidFileID)
		return fmt.Errorf("%w: %q", playerrors.ErrIndexOutOfRange, arg)
	}
	file, err := s.catalog.Get(id)
	if err != nil {
		s.printer.Error(msgInvalidFileID)
		return err
	}

	wave, err := audio.Load(file.Path)
	if err != nil {
		s.printer.Error("Could not add to playlist! (%v)", err)
		return err
	}
	s.playlist.Add(wave)

	if _, err := s.playlist.FindByFilename(wave.Name()); err != nil {
		s.printer.Error("Could not add to playlist!")
		return err
	}
	s.printer.Success("Successfully added to playlist")
	log.Info("added to playlist", "track", wave.Path(), "size", s.playlist.Len())
	return nil
}

func cmdRemove(ctx context.Context, s *Session, arg string) error {
	if arg == "" {
		s.printer.Error("You need to specify the ID (to remove one) or '*' (to remove all).\nUse the command 'list' to see all the possible IDs")
		return playerrors.ErrMissingArgument
	}
	if arg == "*" {
		if s.playlist.Wipe() == 0 {
			s.printer.Message(msgEmptyPlaylist)
			return nil
		}
		s.engine.DiscardResume(nil)
		s.printer.Success("All removed from playlist")
		return nil
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		s.printer.Error(msgInvalidListID)
		return fmt.Errorf("%w: %q", playerrors.ErrIndexOutOfRange, arg)
	}
	wave, err := s.playlist.Remove(id - 1)
	if err != nil {
		s.printer.Error(msgInvalidListID)
		return err
	}
	s.engine.DiscardResume(wave)
	s.printer.Success("Successfully removed from playlist")
	return nil
}

func cmdInfo(ctx context.Context, s *Session, arg string) error {
	if arg == "" {
		s.printer.Error("You need to specify the playlist ID. Ex: info 1")
		return playerrors.ErrMissingArgument
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		s.printer.Error(msgInvalidListID)
		return fmt.Errorf("%w: %q", playerrors.ErrIndexOutOfRange, arg)
	}
	wave, err := s.playlist.At(id - 1)
	if err != nil {
		s.printer.Error(msgInvalidListID)
		return err
	}

	info := ui.TrackInfo{
		Position:      id,
		Name:          wave.Name(),
		Path:          wave.Path(),
		Channels:      wave.Channels(),
		SampleRate:    wave.SampleRate(),
		BitsPerSample: wave.BitsPerSample(),
		Frames:        wave.Frames(),
		Duration:      wave.Duration(),
	}
	if cur, ok := s.engine.ResumePoint(); ok && cur.Track == wave {
		info.IsPaused = true
		info.Resume = framesToDuration(cur.Frame, wave.SampleRate())
	}
	s.printer.TrackInfo(info)
	return nil
}

func cmdPlay(ctx context.Context, s *Session, arg string) error {
	if s.playlist.Len() == 0 {
		s.printer.Message(msgEmptyPlaylist)
		return nil
	}
	status, err := s.engine.Play(s.playlist)
	if err != nil {
		s.printer.Error("Playback stopped: %v", err)
		return err
	}
	if status == api.StatusFinished {
		s.printer.Message("No more wave files in queue")
	}
	return nil
}

func cmdClear(ctx context.Context, s *Session, arg string) error {
	s.printer.ClearScreen()
	return nil
}

func cmdExit(ctx context.Context, s *Session, arg string) error {
	return errExit
}

// onEngineEvent prints playback transitions as they happen.
func (s *Session) onEngineEvent(evt api.AudioEvent) {
	switch evt.Type {
	case api.EventTrackStarted:
		s.printer.Status("Currently playing %q", evt.Track)
	case api.EventTrackPaused:
		s.printer.Message("Paused")
	case api.EventTrackSkipped:
		s.printer.Message("Skipping...")
	case api.EventError:
		if errors.Is(evt.Err, playerrors.ErrInvalidFormat) {
			s.printer.Error("Cannot play %q on this device, skipping...", evt.Track)
		}
	}
}

func framesToDuration(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
