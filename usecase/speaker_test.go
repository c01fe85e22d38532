package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// fakeTTS streams canned chunks, optionally slowly.
type fakeTTS struct {
	chunks [][]byte
	delay  time.Duration
	err    error
}

func (f *fakeTTS) Synthesize(ctx context.Context, text, locale string) (<-chan []byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for _, chunk := range f.chunks {
			if f.delay > 0 {
				select {
				case <-ctx.Done():
					return
				case <-time.After(f.delay):
				}
			}
			select {
			case <-ctx.Done():
				return
			case out <- chunk:
			}
		}
	}()
	return out, nil
}

func TestSpeakStreamsToSink(t *testing.T) {
	tts := &fakeTTS{chunks: [][]byte{{1, 2}, {3, 4}, {5}}}
	var mu sync.Mutex
	var received [][]byte
	done := make(chan struct{})

	speaker := NewSpeaker(tts, func(chunk []byte) {
		mu.Lock()
		received = append(received, chunk)
		mu.Unlock()
	}, zaptest.NewLogger(t))
	speaker.SetDoneHandler(func() { close(done) })

	if err := speaker.Speak(context.Background(), "hello", "en-IN"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Playback never finished")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 3 {
		t.Errorf("Expected 3 chunks, got %d", len(received))
	}
	if speaker.Speaking() {
		t.Error("Expected playback to be over")
	}
}

func TestStopCancelsPlayback(t *testing.T) {
	tts := &fakeTTS{chunks: [][]byte{{1}, {2}, {3}, {4}, {5}}, delay: 50 * time.Millisecond}
	var mu sync.Mutex
	count := 0

	speaker := NewSpeaker(tts, func([]byte) {
		mu.Lock()
		count++
		mu.Unlock()
	}, zaptest.NewLogger(t))

	if err := speaker.Speak(context.Background(), "long reply", "en-IN"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	time.Sleep(70 * time.Millisecond)
	speaker.Stop()
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	got := count
	mu.Unlock()
	if got >= 5 {
		t.Errorf("Expected playback to be cut short, received all %d chunks", got)
	}
	if speaker.Speaking() {
		t.Error("Expected idle after Stop")
	}
}

func TestSpeakSupersedesPrevious(t *testing.T) {
	tts := &fakeTTS{chunks: [][]byte{{1}, {2}, {3}}, delay: 30 * time.Millisecond}
	speaker := NewSpeaker(tts, nil, zaptest.NewLogger(t))

	if err := speaker.Speak(context.Background(), "first", "en-IN"); err != nil {
		t.Fatalf("First Speak failed: %v", err)
	}
	if err := speaker.Speak(context.Background(), "second", "en-IN"); err != nil {
		t.Fatalf("Second Speak failed: %v", err)
	}

	// Only the most recent playback may hold the speaking state; let it run
	// out and verify it clears.
	time.Sleep(300 * time.Millisecond)
	if speaker.Speaking() {
		t.Error("Expected idle after the superseding playback finished")
	}
}

func TestSpeakSynthesisError(t *testing.T) {
	tts := &fakeTTS{err: errors.New("no api key")}
	speaker := NewSpeaker(tts, nil, zaptest.NewLogger(t))

	if err := speaker.Speak(context.Background(), "hello", "en-IN"); err == nil {
		t.Fatal("Expected synthesis error to propagate")
	}
	if speaker.Speaking() {
		t.Error("Expected idle after failed Speak")
	}
}
