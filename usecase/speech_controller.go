package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// DefaultSilenceTimeout is how long the controller waits after the last
// recognition event before auto-stopping a session.
const DefaultSilenceTimeout = 2500 * time.Millisecond

// ErrRecognizerUnavailable is returned when no speech capture capability is
// wired at all. Detected at construction, before any start attempt.
var ErrRecognizerUnavailable = errors.New("speech recognition is not available")

// CompletionFunc receives the committed utterance when a session ends
// without a fatal error.
type CompletionFunc func(utterance string)

// SessionControllerOption customizes a SessionController.
type SessionControllerOption func(*SessionController)

// WithSilenceTimeout overrides the silence endpointing interval.
func WithSilenceTimeout(d time.Duration) SessionControllerOption {
	return func(c *SessionController) {
		if d > 0 {
			c.silence = d
		}
	}
}

// WithErrorHandler installs a handler for session-fatal errors. The handler
// receives the human-readable message that would be shown to the user.
func WithErrorHandler(fn func(message string)) SessionControllerOption {
	return func(c *SessionController) { c.onError = fn }
}

// WithTranscriptHandler installs a handler invoked after every applied
// recognition result with the committed and interim transcripts, for live
// display.
func WithTranscriptHandler(fn func(committed, interim string)) SessionControllerOption {
	return func(c *SessionController) { c.onTranscript = fn }
}

// SessionController presents a uniform start/stop interface over a speech
// capture capability and enforces silence-based auto-stop so callers never
// touch platform timers. At most one session is live per controller; starting
// a new one supersedes the previous, and events from superseded sessions are
// discarded via a generation counter.
type SessionController struct {
	recognizer   repositories.Recognizer
	language     func() entities.Language
	logger       *zap.Logger
	silence      time.Duration
	onError      func(message string)
	onTranscript func(committed, interim string)

	mu         sync.Mutex
	session    *entities.SpeechSession
	stream     repositories.RecognitionStream
	timer      *time.Timer
	generation uint64
	onComplete CompletionFunc
}

// NewSessionController creates a controller. language is consulted on every
// StartListening so a language change takes effect on the next session.
func NewSessionController(
	recognizer repositories.Recognizer,
	language func() entities.Language,
	logger *zap.Logger,
	opts ...SessionControllerOption,
) (*SessionController, error) {
	if recognizer == nil {
		return nil, ErrRecognizerUnavailable
	}
	if language == nil {
		language = func() entities.Language { return entities.LanguageEnglish }
	}
	c := &SessionController{
		recognizer: recognizer,
		language:   language,
		logger:     logger,
		silence:    DefaultSilenceTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StartListening begins a fresh session. Any previous session is superseded:
// its stream is stopped and its remaining events, including the eventual
// completion, are discarded. onComplete receives the committed utterance once
// the session ends by manual stop or silence timeout.
func (c *SessionController) StartListening(ctx context.Context, onComplete CompletionFunc) error {
	c.mu.Lock()

	if c.stream != nil {
		// Supersede: stop the old stream, its events become stale below.
		_ = c.stream.Stop()
		c.stream = nil
	}
	c.cancelSilenceLocked()
	c.generation++
	gen := c.generation

	locale := entities.LocaleFor(c.language())
	session := entities.NewSpeechSession(locale)
	session.Begin()
	c.session = session
	c.onComplete = onComplete
	c.mu.Unlock()

	stream, err := c.recognizer.Start(ctx, repositories.RecognitionConfig{
		Locale:         locale,
		Continuous:     true,
		InterimResults: true,
	})
	if err != nil {
		msg := "Microphone error. Please retry."
		c.mu.Lock()
		if gen == c.generation {
			session.ApplyError(msg)
		}
		c.mu.Unlock()
		c.surfaceError(msg)
		c.logger.Error("failed to start speech capture",
			zap.String("locale", locale), zap.Error(err))
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		// Superseded while starting.
		c.mu.Unlock()
		_ = stream.Stop()
		return nil
	}
	c.stream = stream
	c.armSilenceLocked(gen)
	c.mu.Unlock()

	c.logger.Info("listening session started", zap.String("locale", locale))
	go c.pump(gen, session, stream)
	return nil
}

// StopListening ends the current session manually. Safe to call when nothing
// is listening or after the session already auto-stopped: it is a no-op then.
func (c *SessionController) StopListening() {
	c.mu.Lock()
	if c.session == nil || c.session.Status() != entities.SpeechListening || c.stream == nil {
		c.mu.Unlock()
		return
	}
	c.cancelSilenceLocked()
	stream := c.stream
	c.mu.Unlock()

	// Finalization happens on the stream's end event, so a second stop
	// cannot double-fire completion.
	_ = stream.Stop()
}

// Status returns the current session status, or SpeechIdle before any start.
func (c *SessionController) Status() entities.SpeechStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return entities.SpeechIdle
	}
	return c.session.Status()
}

// CommittedText returns the finalized transcript of the current session.
func (c *SessionController) CommittedText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.CommittedText()
}

// InterimText returns the in-flight provisional transcript.
func (c *SessionController) InterimText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.InterimText()
}

// DisplayText returns committed plus interim text for live feedback.
func (c *SessionController) DisplayText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.DisplayText()
}

// pump drains one stream's events into the controller.
func (c *SessionController) pump(gen uint64, session *entities.SpeechSession, stream repositories.RecognitionStream) {
	for ev := range stream.Events() {
		c.handleEvent(gen, session, stream, ev)
	}
	// Channel closure counts as the terminating end event.
	c.handleEvent(gen, session, stream, repositories.RecognitionEvent{Type: repositories.RecognitionEnded})
}

func (c *SessionController) handleEvent(gen uint64, session *entities.SpeechSession, stream repositories.RecognitionStream, ev repositories.RecognitionEvent) {
	c.mu.Lock()
	stale := gen != c.generation

	switch ev.Type {
	case repositories.RecognitionStarted:
		if !stale && session.Status() == entities.SpeechListening {
			c.armSilenceLocked(gen)
		}
		c.mu.Unlock()

	case repositories.RecognitionResult:
		var notify func(committed, interim string)
		var committed, interim string
		if !stale && session.ApplyResult(ev.Finals, ev.Interim) {
			// Speech activity: silence is measured from the last event,
			// not from session start.
			c.armSilenceLocked(gen)
			notify = c.onTranscript
			committed = session.CommittedText()
			interim = session.InterimText()
		}
		c.mu.Unlock()
		if notify != nil {
			notify(committed, interim)
		}

	case repositories.RecognitionError:
		if stale || ev.Code == repositories.RecognitionErrNoSpeech {
			// Spurious no-speech fires on natural pauses; ignore it.
			c.mu.Unlock()
			return
		}
		if session.Status() != entities.SpeechListening {
			c.mu.Unlock()
			return
		}
		msg := recognitionErrorMessage(ev.Code)
		session.ApplyError(msg)
		c.cancelSilenceLocked()
		c.mu.Unlock()

		_ = stream.Stop()
		c.surfaceError(msg)
		c.logger.Warn("speech capture error", zap.String("code", string(ev.Code)))

	case repositories.RecognitionEnded:
		// The terminating end always finalizes session state, even when
		// the session was superseded; only the callbacks go quiet then.
		wasListening := session.Status() == entities.SpeechListening
		session.End()
		var complete CompletionFunc
		var utterance string
		if !stale {
			c.cancelSilenceLocked()
			c.stream = nil
			if wasListening && session.Status() == entities.SpeechStopped {
				complete = c.onComplete
				utterance = session.CommittedText()
			}
		}
		c.mu.Unlock()

		if complete != nil {
			complete(utterance)
		}

	default:
		c.mu.Unlock()
	}
}

// armSilenceLocked re-arms the silence timer. Caller holds c.mu.
func (c *SessionController) armSilenceLocked(gen uint64) {
	c.cancelSilenceLocked()
	c.timer = time.AfterFunc(c.silence, func() { c.silenceExpired(gen) })
}

// cancelSilenceLocked stops any pending auto-stop. Caller holds c.mu.
func (c *SessionController) cancelSilenceLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// silenceExpired fires the silence endpoint: identical to a manual stop.
func (c *SessionController) silenceExpired(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.session == nil ||
		c.session.Status() != entities.SpeechListening || c.stream == nil {
		c.mu.Unlock()
		return
	}
	stream := c.stream
	c.timer = nil
	c.mu.Unlock()

	c.logger.Info("silence detected, stopping capture")
	_ = stream.Stop()
}

func (c *SessionController) surfaceError(msg string) {
	if c.onError != nil {
		c.onError(msg)
	}
}

// recognitionErrorMessage maps fatal capture error codes to the short
// human-readable messages shown to the user.
func recognitionErrorMessage(code repositories.RecognitionErrorCode) string {
	switch code {
	case repositories.RecognitionErrNetwork:
		return "Network error: check internet connection."
	case repositories.RecognitionErrNotAllowed:
		return "Microphone blocked. Check permissions."
	case repositories.RecognitionErrLanguage:
		return "Language not supported for voice input."
	default:
		return "Microphone error. Please retry."
	}
}
