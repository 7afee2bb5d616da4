package app

import "focuspad/internal/timer"

// Status is a point-in-time summary of every component.
type Status struct {
	Timer TimerStatus `json:"timer" yaml:"timer"`
	Notes NotesStatus `json:"notes" yaml:"notes"`
	Audio AudioStatus `json:"audio" yaml:"audio"`
	Theme string      `json:"theme" yaml:"theme"`
}

type TimerStatus struct {
	Running  bool    `json:"running" yaml:"running"`
	TimeLeft string  `json:"time_left" yaml:"time_left"`
	Session  string  `json:"session" yaml:"session"`
	Progress float64 `json:"progress" yaml:"progress"`
}

type NotesStatus struct {
	CharCount int `json:"char_count" yaml:"char_count"`
	WordCount int `json:"word_count" yaml:"word_count"`
}

type AudioStatus struct {
	CurrentTrack string  `json:"current_track,omitempty" yaml:"current_track,omitempty"`
	Playing      bool    `json:"playing" yaml:"playing"`
	Volume       float64 `json:"volume" yaml:"volume"`
}

func (a *App) Status() Status {
	snap := a.Timer.Snapshot()
	playback := a.Audio.Snapshot()

	st := Status{
		Timer: TimerStatus{
			Running:  snap.Running,
			TimeLeft: timer.FormatTime(snap.Remaining),
			Session:  snap.Kind.String(),
			Progress: snap.Progress,
		},
		Notes: NotesStatus{
			CharCount: a.Notes.CharCount(),
			WordCount: a.Notes.WordCount(),
		},
		Audio: AudioStatus{
			Playing: playback.Playing,
			Volume:  playback.Volume,
		},
		Theme: string(a.theme),
	}
	if track, ok := a.Audio.Current(); ok {
		st.Audio.CurrentTrack = track.Name
	}
	return st
}
