// Package stt adapts Google Cloud Speech streaming recognition to the
// Recognizer port for clients that stream raw audio to the server.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

const defaultSampleRateHertz = 16000

// GoogleRecognizer implements repositories.Recognizer on Google Cloud
// Speech-to-Text streaming recognition.
type GoogleRecognizer struct {
	logger     *zap.Logger
	encoding   speechpb.RecognitionConfig_AudioEncoding
	sampleRate int32
}

var _ repositories.Recognizer = (*GoogleRecognizer)(nil)

// NewGoogleRecognizer creates a recognizer for LINEAR16 audio at 16kHz.
func NewGoogleRecognizer(logger *zap.Logger) *GoogleRecognizer {
	return &GoogleRecognizer{
		logger:     logger,
		encoding:   speechpb.RecognitionConfig_LINEAR16,
		sampleRate: defaultSampleRateHertz,
	}
}

// Start opens a streaming recognition session. The returned stream also
// accepts audio via Write; callers feeding audio hold the concrete type.
func (g *GoogleRecognizer) Start(ctx context.Context, config repositories.RecognitionConfig) (repositories.RecognitionStream, error) {
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open streaming recognize: %w", err)
	}

	streamingConfig := &speechpb.StreamingRecognitionConfig{
		Config: &speechpb.RecognitionConfig{
			Encoding:        g.encoding,
			SampleRateHertz: g.sampleRate,
			LanguageCode:    config.Locale,
		},
		InterimResults:  config.InterimResults,
		SingleUtterance: !config.Continuous,
	}
	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: streamingConfig,
		},
	}); err != nil {
		stream.CloseSend()
		client.Close()
		return nil, fmt.Errorf("failed to send streaming config: %w", err)
	}

	s := &GoogleStream{
		client: client,
		stream: stream,
		logger: g.logger,
		events: make(chan repositories.RecognitionEvent, 16),
	}
	go s.receive()
	return s, nil
}

// GoogleStream is one live Google streaming recognition session.
type GoogleStream struct {
	client *speech.Client
	stream speechpb.Speech_StreamingRecognizeClient
	logger *zap.Logger
	events chan repositories.RecognitionEvent

	mu     sync.Mutex
	closed bool
}

var _ repositories.RecognitionStream = (*GoogleStream)(nil)

// Events implements repositories.RecognitionStream.
func (s *GoogleStream) Events() <-chan repositories.RecognitionEvent {
	return s.events
}

// Write feeds captured audio into the recognizer.
func (s *GoogleStream) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("recognition stream already stopped")
	}
	if len(data) == 0 {
		return nil
	}
	if err := s.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: data,
		},
	}); err != nil {
		return fmt.Errorf("failed to send audio data: %w", err)
	}
	return nil
}

// Stop signals end of audio. The receiver drains remaining results and then
// emits the terminating end event. Safe to call more than once.
func (s *GoogleStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stream.CloseSend()
}

// receive pumps Google responses into recognition events until the stream
// ends, then closes the event channel.
func (s *GoogleStream) receive() {
	defer func() {
		s.events <- repositories.RecognitionEvent{Type: repositories.RecognitionEnded}
		close(s.events)
		s.client.Close()
	}()

	started := false
	for {
		resp, err := s.stream.Recv()
		if err == io.EOF {
			return
		}
		if err != nil {
			s.logger.Warn("streaming recognition receive failed", zap.Error(err))
			s.events <- repositories.RecognitionEvent{
				Type: repositories.RecognitionError,
				Code: classifyError(err),
			}
			return
		}
		if !started {
			started = true
			s.events <- repositories.RecognitionEvent{Type: repositories.RecognitionStarted}
		}

		var finals []string
		var interim string
		for _, result := range resp.Results {
			if len(result.Alternatives) == 0 {
				continue
			}
			transcript := result.Alternatives[0].Transcript
			if result.IsFinal {
				finals = append(finals, transcript)
				continue
			}
			interim = transcript
		}
		if len(finals) > 0 || interim != "" {
			s.events <- repositories.RecognitionEvent{
				Type:    repositories.RecognitionResult,
				Finals:  finals,
				Interim: interim,
			}
		}
	}
}

// classifyError maps transport failures onto the platform error codes the
// session controller understands.
func classifyError(err error) repositories.RecognitionErrorCode {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "permission") || strings.Contains(msg, "unauthenticated"):
		return repositories.RecognitionErrNotAllowed
	case strings.Contains(msg, "language") || strings.Contains(msg, "invalid recognition"):
		return repositories.RecognitionErrLanguage
	default:
		return repositories.RecognitionErrNetwork
	}
}
