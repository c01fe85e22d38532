package entities

import "strings"

// SpeechStatus represents the status of a listening episode.
type SpeechStatus string

const (
	SpeechIdle      SpeechStatus = "idle"
	SpeechListening SpeechStatus = "listening"
	SpeechStopped   SpeechStatus = "stopped"
	SpeechErrored   SpeechStatus = "errored"
)

// SpeechSession is one listening episode. It applies recognition events as
// pure state transitions; timers, event pumps, and platform I/O live in the
// session controller. Sessions are not reused: a fresh one is created for
// every listening episode.
type SpeechSession struct {
	status    SpeechStatus
	locale    string
	committed string
	interim   string
	errMsg    string
}

// NewSpeechSession creates an idle session bound to a recognition locale.
func NewSpeechSession(locale string) *SpeechSession {
	return &SpeechSession{status: SpeechIdle, locale: locale}
}

// Begin transitions Idle -> Listening and resets the transcript. Returns
// false if the session already left Idle.
func (s *SpeechSession) Begin() bool {
	if s.status != SpeechIdle {
		return false
	}
	s.status = SpeechListening
	s.committed = ""
	s.interim = ""
	s.errMsg = ""
	return true
}

// ApplyResult merges one recognition result event. Newly finalized segments
// are appended to the committed text; the interim segment replaces the
// previous one wholesale. Events arriving after the session left Listening
// are ignored. Returns whether the event was applied.
func (s *SpeechSession) ApplyResult(finals []string, interim string) bool {
	if s.status != SpeechListening {
		return false
	}
	for _, seg := range finals {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		s.committed = strings.TrimSpace(s.committed + " " + seg)
	}
	s.interim = interim
	return true
}

// ApplyError transitions to Errored with a human-readable message.
func (s *SpeechSession) ApplyError(msg string) {
	s.status = SpeechErrored
	s.errMsg = msg
}

// End finalizes the session. The terminating end event always lands, but an
// Errored session keeps its error status.
func (s *SpeechSession) End() {
	if s.status == SpeechErrored {
		return
	}
	s.status = SpeechStopped
}

// Status returns the current session status.
func (s *SpeechSession) Status() SpeechStatus { return s.status }

// Locale returns the recognition locale the session was started with.
func (s *SpeechSession) Locale() string { return s.locale }

// CommittedText is the space-joined concatenation of finalized segments in
// arrival order. It only grows, except on Begin. Downstream extraction
// consumes this text only.
func (s *SpeechSession) CommittedText() string { return s.committed }

// InterimText is the latest provisional segment, superseded on each update.
func (s *SpeechSession) InterimText() string { return s.interim }

// DisplayText is committed plus interim, for live UI feedback.
func (s *SpeechSession) DisplayText() string {
	return strings.TrimSpace(s.committed + " " + s.interim)
}

// ErrorMessage returns the surfaced error text, empty unless Errored.
func (s *SpeechSession) ErrorMessage() string { return s.errMsg }
