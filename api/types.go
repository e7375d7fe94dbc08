package api

import "time"

// PlaybackStatus is the state of the playback engine for the current track.
type PlaybackStatus int

const (
	StatusIdle PlaybackStatus = iota
	StatusPlaying
	StatusPaused
	StatusSkipped
	StatusFinished
)

func (s PlaybackStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusSkipped:
		return "skipped"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// EventType identifies a playback event.
type EventType int

const (
	EventTrackStarted EventType = iota
	EventTrackPaused
	EventTrackSkipped
	EventTrackEnded
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventTrackStarted:
		return "track_started"
	case EventTrackPaused:
		return "track_paused"
	case EventTrackSkipped:
		return "track_skipped"
	case EventTrackEnded:
		return "track_ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// AudioEvent is published by the playback engine.
type AudioEvent struct {
	Type  EventType
	Track string // file name of the track the event refers to
	Frame int    // frame index at the time of the event
	Err   error
}

// FileInfo describes a wave file found by a directory scan.
type FileInfo struct {
	Path       string        `json:"path"`
	Name       string        `json:"name"`
	Duration   time.Duration `json:"duration"`
	Channels   int           `json:"channels"`
	SampleRate int           `json:"sample_rate"`
	BitDepth   int           `json:"bit_depth"`
	Valid      bool          `json:"valid"`
}
