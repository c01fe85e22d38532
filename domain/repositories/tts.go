package repositories

import "context"

// TextToSpeech abstracts speech synthesis. The returned channel streams audio
// chunks and is closed when synthesis completes; cancelling ctx aborts any
// in-flight synthesis.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, locale string) (<-chan []byte, error)
}
