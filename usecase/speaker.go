package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// Speaker serializes spoken playback: at most one utterance plays at a time,
// starting a new one cancels whatever is in flight, and Stop is always
// available while speaking.
type Speaker struct {
	tts    repositories.TextToSpeech
	sink   func(chunk []byte)
	logger *zap.Logger

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
	onDone     func()
}

// SetDoneHandler installs a callback fired when playback of the current
// utterance finishes or is cancelled.
func (s *Speaker) SetDoneHandler(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = fn
}

// NewSpeaker creates a playback manager. sink receives synthesized audio
// chunks in order; a nil sink discards them.
func NewSpeaker(tts repositories.TextToSpeech, sink func(chunk []byte), logger *zap.Logger) *Speaker {
	if sink == nil {
		sink = func([]byte) {}
	}
	return &Speaker{tts: tts, sink: sink, logger: logger}
}

// Speak starts playback of text, cancelling any in-flight utterance first.
func (s *Speaker) Speak(ctx context.Context, text string, locale string) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	playCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	audio, err := s.tts.Synthesize(playCtx, text, locale)
	if err != nil {
		s.finish(gen)
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		return err
	}

	go func() {
		for chunk := range audio {
			select {
			case <-playCtx.Done():
				s.finish(gen)
				return
			default:
			}
			s.sink(chunk)
		}
		s.finish(gen)
	}()
	return nil
}

// Stop cancels any in-flight playback. Safe to call when idle.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Speaking reports whether an utterance is currently playing.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// finish clears playback state if this utterance is still the current one.
func (s *Speaker) finish(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.onDone
	s.mu.Unlock()

	if done != nil {
		done()
	}
}
