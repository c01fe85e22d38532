package repositories

import "context"

// RecognitionEventType classifies events emitted by a capture stream.
type RecognitionEventType string

const (
	RecognitionStarted RecognitionEventType = "started"
	RecognitionResult  RecognitionEventType = "result"
	RecognitionError   RecognitionEventType = "error"
	RecognitionEnded   RecognitionEventType = "ended"
)

// RecognitionErrorCode mirrors the platform speech capture error codes.
type RecognitionErrorCode string

const (
	RecognitionErrNoSpeech   RecognitionErrorCode = "no-speech"
	RecognitionErrNotAllowed RecognitionErrorCode = "not-allowed"
	RecognitionErrNetwork    RecognitionErrorCode = "network"
	RecognitionErrLanguage   RecognitionErrorCode = "language-not-supported"
)

// RecognitionEvent is one event from a live capture stream.
type RecognitionEvent struct {
	Type RecognitionEventType `json:"type"`
	// Finals holds newly finalized segments in arrival order.
	Finals []string `json:"finals,omitempty"`
	// Interim is the latest provisional segment; it supersedes the previous
	// interim entirely.
	Interim string               `json:"interim,omitempty"`
	Code    RecognitionErrorCode `json:"code,omitempty"`
}

// RecognitionConfig configures one capture session.
type RecognitionConfig struct {
	Locale         string `json:"locale"`
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interim_results"`
}

// RecognitionStream is a started capture session. The stream emits events
// until it ends; Events is closed after the terminating RecognitionEnded.
type RecognitionStream interface {
	Events() <-chan RecognitionEvent
	// Stop requests the capture to end. Safe to call more than once; the
	// stream still delivers its terminating end event.
	Stop() error
}

// Recognizer abstracts whatever speech capture capability is available.
// Start may fail immediately when the capability is absent or microphone
// access is denied.
type Recognizer interface {
	Start(ctx context.Context, config RecognitionConfig) (RecognitionStream, error)
}
