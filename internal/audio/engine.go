package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jscyril/wavejukebox/api"
	"github.com/jscyril/wavejukebox/internal/log"
	"github.com/jscyril/wavejukebox/internal/playlist"
	"github.com/jscyril/wavejukebox/internal/terminal"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
	"github.com/jscyril/wavejukebox/pkg/events"
)

const (
	// DefaultPeriodFrames is the number of frames written per sink call.
	DefaultPeriodFrames = 64
	// DefaultBufferLatency is the device buffer requested from the sink.
	DefaultBufferLatency = 500 * time.Millisecond
)

// Console is the part of the terminal the engine needs: raw mode for the
// duration of a track and a non-blocking key check between periods.
type Console interface {
	EnterRaw() error
	Restore() error
	Ready() (bool, error)
	ReadKey() (terminal.Key, error)
}

// Queue is the playlist type the engine consumes.
type Queue = playlist.Playlist[*WaveFile]

// EngineConfig holds playback settings
type EngineConfig struct {
	Device        string
	PeriodFrames  int
	BufferLatency time.Duration
	PauseKey      rune
	SkipKey       rune
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.Device == "" {
		c.Device = "default"
	}
	if c.PeriodFrames <= 0 {
		c.PeriodFrames = DefaultPeriodFrames
	}
	if c.BufferLatency <= 0 {
		c.BufferLatency = DefaultBufferLatency
	}
	if c.PauseKey == 0 {
		c.PauseKey = 'p'
	}
	if c.SkipKey == 0 {
		c.SkipKey = 'n'
	}
	return c
}

// Cursor is a position inside a loaded track.
type Cursor struct {
	Track *WaveFile
	Frame int
}

// Engine streams the head of a playlist into a sink one period at a time,
// checking the console for pause and skip keys before every write.
type Engine struct {
	cfg     EngineConfig
	console Console
	bus     *events.EventBus
	open    Opener

	// OnEvent, if set, is called synchronously for every event while the
	// terminal is in cooked mode.
	OnEvent func(api.AudioEvent)

	mu     sync.Mutex
	status api.PlaybackStatus
	resume *Cursor
}

// NewEngine creates an engine. bus may be nil.
func NewEngine(cfg EngineConfig, console Console, bus *events.EventBus) *Engine {
	return &Engine{
		cfg:     cfg.withDefaults(),
		console: console,
		bus:     bus,
		open:    Open,
		status:  api.StatusIdle,
	}
}

// SetOpener replaces the function used to open the output device.
func (e *Engine) SetOpener(open Opener) {
	e.open = open
}

// Status returns the state of the last transition
func (e *Engine) Status() api.PlaybackStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// ResumePoint returns the position saved by the last pause.
func (e *Engine) ResumePoint() (Cursor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resume == nil {
		return Cursor{}, false
	}
	return *e.resume, true
}

// DiscardResume drops the saved position if it belongs to track.
// A nil track drops it unconditionally.
func (e *Engine) DiscardResume(track *WaveFile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resume != nil && (track == nil || e.resume.Track == track) {
		e.resume = nil
	}
}

// Play plays tracks from the head of pl until the playlist is empty, a
// track is paused, or an error occurs. It returns the final status.
func (e *Engine) Play(pl *Queue) (api.PlaybackStatus, error) {
	if pl.Len() == 0 {
		return api.StatusIdle, playerrors.ErrEmptyPlaylist
	}
	for pl.Len() > 0 {
		status, err := e.PlayTrack(pl)
		if err != nil {
			return status, err
		}
		if status == api.StatusPaused {
			return status, nil
		}
	}
	return api.StatusFinished, nil
}

// PlayTrack plays the head of pl once. It returns StatusPaused with the
// track left at the head and a resume point saved, or StatusSkipped or
// StatusFinished with the track removed from the playlist. A track whose
// format the device rejects is removed and reported as skipped after an
// EventError.
func (e *Engine) PlayTrack(pl *Queue) (api.PlaybackStatus, error) {
	track, ok := pl.First()
	if !ok {
		e.setStatus(api.StatusIdle)
		return api.StatusIdle, playerrors.ErrEmptyPlaylist
	}

	start := e.takeResume(track)

	sink, err := e.open(e.cfg.Device)
	if err != nil {
		return e.fail(track, start, err)
	}

	format := Format{
		Channels:      track.Channels(),
		SampleRate:    track.SampleRate(),
		BitsPerSample: track.BitsPerSample(),
		Periods:       1,
		BufferLatency: e.cfg.BufferLatency,
	}
	if err := sink.Configure(format); err != nil {
		sink.Close()
		if errors.Is(err, playerrors.ErrInvalidFormat) {
			// The device cannot take this track; drop it and let the queue move on.
			if _, rerr := pl.Remove(0); rerr != nil {
				return e.fail(track, start, rerr)
			}
			e.fail(track, start, playerrors.NewPlayerError("configure", track.Name(), err))
			e.setStatus(api.StatusSkipped)
			return api.StatusSkipped, nil
		}
		return e.fail(track, start, playerrors.NewPlayerError("configure", track.Name(), deviceError(err)))
	}

	e.setStatus(api.StatusPlaying)
	e.emit(api.AudioEvent{Type: api.EventTrackStarted, Track: track.Name(), Frame: start})
	log.Debug("track started", "track", track.Name(), "frame", start, "device", e.cfg.Device)

	if err := e.console.EnterRaw(); err != nil {
		sink.Close()
		return e.fail(track, start, err)
	}

	status, frame, err := e.stream(sink, track, start)

	if rerr := e.console.Restore(); rerr != nil {
		log.Warn("restore terminal", "error", rerr)
	}

	if err != nil {
		sink.Close()
		return e.fail(track, frame, err)
	}

	switch status {
	case api.StatusPaused:
		// The resume point replaces draining: buffered audio is dropped.
		sink.Close()
		e.mu.Lock()
		e.resume = &Cursor{Track: track, Frame: frame}
		e.mu.Unlock()
		e.setStatus(api.StatusPaused)
		e.emit(api.AudioEvent{Type: api.EventTrackPaused, Track: track.Name(), Frame: frame})
		return status, nil

	case api.StatusSkipped, api.StatusFinished:
		if err := sink.Drain(); err != nil {
			log.Warn("drain sink", "track", track.Name(), "error", err)
		}
		if err := sink.Close(); err != nil {
			log.Warn("close sink", "track", track.Name(), "error", err)
		}
		if _, err := pl.Remove(0); err != nil {
			return e.fail(track, frame, err)
		}
		e.setStatus(status)
		evt := api.EventTrackEnded
		if status == api.StatusSkipped {
			evt = api.EventTrackSkipped
		}
		e.emit(api.AudioEvent{Type: evt, Track: track.Name(), Frame: frame})
		return status, nil
	}

	return status, nil
}

// stream writes periods from start until the track ends or a key stops it.
// It returns the frame that would have been written next.
func (e *Engine) stream(sink Sink, track *WaveFile, start int) (api.PlaybackStatus, int, error) {
	frame := start
	polling := true
	for {
		window := track.SampleWindow(frame, e.cfg.PeriodFrames)
		frames := len(window) / track.FrameSize()
		if frames == 0 {
			// A trailing partial frame cannot be played.
			return api.StatusFinished, frame, nil
		}

		if polling {
			key, pending, err := e.pendingKey()
			if err != nil {
				// Input is gone; keep playing without key control.
				log.Warn("stop polling keys", "track", track.Name(), "error", err)
				polling = false
			}
			if pending {
				switch {
				case key.Kind == terminal.KeyRune && key.Rune == e.cfg.PauseKey:
					return api.StatusPaused, frame, nil
				case key.Kind == terminal.KeyRune && key.Rune == e.cfg.SkipKey:
					return api.StatusSkipped, frame, nil
				}
				continue
			}
		}

		if err := e.write(sink, track, window, frames); err != nil {
			return api.StatusIdle, frame, err
		}
		frame += frames
	}
}

func (e *Engine) pendingKey() (terminal.Key, bool, error) {
	ready, err := e.console.Ready()
	if err != nil || !ready {
		return terminal.Key{}, false, err
	}
	key, err := e.console.ReadKey()
	if err != nil {
		return terminal.Key{}, false, err
	}
	return key, true, nil
}

// write hands one period to the sink, recovering the device once on failure.
func (e *Engine) write(sink Sink, track *WaveFile, window []byte, frames int) error {
	n, err := sink.Write(window, frames)
	if err != nil {
		log.Warn("sink write failed, recovering", "track", track.Name(), "error", err)
		if rerr := sink.Recover(err); rerr != nil {
			return playerrors.NewPlayerError("write", track.Name(), deviceError(rerr))
		}
		n, err = sink.Write(window, frames)
		if err != nil {
			return playerrors.NewPlayerError("write", track.Name(), deviceError(err))
		}
	}
	if n != frames {
		log.Warn("short write", "track", track.Name(), "written", n, "expected", frames)
	}
	return nil
}

// takeResume returns the saved frame for track and clears it. A resume
// point saved for another track is discarded.
func (e *Engine) takeResume(track *WaveFile) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := 0
	if e.resume != nil && e.resume.Track == track {
		start = e.resume.Frame
	}
	e.resume = nil
	return start
}

func (e *Engine) fail(track *WaveFile, frame int, err error) (api.PlaybackStatus, error) {
	e.setStatus(api.StatusIdle)
	e.emit(api.AudioEvent{Type: api.EventError, Track: track.Name(), Frame: frame, Err: err})
	return api.StatusIdle, err
}

func (e *Engine) setStatus(s api.PlaybackStatus) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

func (e *Engine) emit(evt api.AudioEvent) {
	e.bus.Publish(evt)
	if e.OnEvent != nil {
		e.OnEvent(evt)
	}
}

func deviceError(err error) error {
	if errors.Is(err, playerrors.ErrDevice) {
		return err
	}
	return fmt.Errorf("%w: %w", playerrors.ErrDevice, err)
}
