package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
)

// SaleCaptureService wires the speech session controller, the sale-intent
// extractor, and the confirmation workflow into the speak-to-sell flow:
// audio events -> committed utterance -> extraction -> editable draft ->
// committed sale record.
type SaleCaptureService struct {
	controller   *SessionController
	extractor    *SaleIntentExtractor
	confirmation *Confirmation
	language     func() entities.Language
	logger       *zap.Logger

	// onDraft pushes the extraction result to the presentation layer once
	// the utterance has been processed.
	onDraft func(ExtractionResult)

	mu         sync.Mutex
	generation uint64
}

// NewSaleCaptureService creates the capture flow.
func NewSaleCaptureService(
	controller *SessionController,
	extractor *SaleIntentExtractor,
	confirmation *Confirmation,
	language func() entities.Language,
	logger *zap.Logger,
) *SaleCaptureService {
	if language == nil {
		language = func() entities.Language { return entities.LanguageEnglish }
	}
	return &SaleCaptureService{
		controller:   controller,
		extractor:    extractor,
		confirmation: confirmation,
		language:     language,
		logger:       logger,
	}
}

// SetDraftHandler installs the callback invoked with each extraction result.
func (s *SaleCaptureService) SetDraftHandler(fn func(ExtractionResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDraft = fn
}

// StartCapture begins a listening session that auto-submits on silence: once
// the session endpoints, the committed utterance goes to the extractor and
// the resulting draft enters the confirmation workflow. Starting a new
// capture supersedes any in-flight extraction; its late result is discarded.
func (s *SaleCaptureService) StartCapture(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	return s.controller.StartListening(ctx, func(utterance string) {
		if utterance == "" {
			s.logger.Info("empty utterance, nothing to extract")
			return
		}
		// Extraction itself carries no cancellation token; staleness is
		// checked when the result lands.
		result := s.extractor.Extract(context.Background(), utterance, s.language())

		s.mu.Lock()
		stale := gen != s.generation
		onDraft := s.onDraft
		s.mu.Unlock()
		if stale {
			s.logger.Info("discarding stale extraction result")
			return
		}

		s.confirmation.Begin(result)
		if onDraft != nil {
			onDraft(result)
		}
	})
}

// StopCapture ends the listening session manually; extraction still runs on
// whatever was committed.
func (s *SaleCaptureService) StopCapture() {
	s.controller.StopListening()
}

// RetryCapture discards the pending draft and any in-flight extraction, then
// starts a fresh listening session.
func (s *SaleCaptureService) RetryCapture(ctx context.Context) error {
	s.confirmation.Discard()
	return s.StartCapture(ctx)
}

// Confirmation exposes the workflow for field edits and commit.
func (s *SaleCaptureService) Confirmation() *Confirmation {
	return s.confirmation
}

// Controller exposes the session controller for transcript display.
func (s *SaleCaptureService) Controller() *SessionController {
	return s.controller
}
