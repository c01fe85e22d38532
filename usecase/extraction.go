package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// ExtractionOutcome tags an extraction result so callers handle every case
// explicitly instead of probing for null fields.
type ExtractionOutcome string

const (
	// ExtractionSuccess means the draft carries usable extracted fields.
	ExtractionSuccess ExtractionOutcome = "success"
	// ExtractionLowConfidence means the service answered but could determine
	// neither item nor price; the draft is a zeroed placeholder.
	ExtractionLowConfidence ExtractionOutcome = "low_confidence"
	// ExtractionFailed means the request or response itself failed; the
	// draft is a zeroed placeholder.
	ExtractionFailed ExtractionOutcome = "failed"
)

// ExtractionHint is the user-facing message shown with placeholder drafts.
const ExtractionHint = "Couldn't understand the sale. Edit the details below or record again."

// ExtractionResult is the validated outcome of one extraction request.
type ExtractionResult struct {
	Outcome ExtractionOutcome  `json:"outcome"`
	Draft   entities.SaleDraft `json:"draft"`
	// Hint carries the user-facing guidance for non-success outcomes.
	Hint string `json:"hint,omitempty"`
}

// SaleIntentExtractor turns a committed utterance into a SaleDraft by
// delegating understanding to the extraction-mode service and validating the
// response shape locally. One request per utterance, no retry and no cache;
// the human edits or re-records on failure.
type SaleIntentExtractor struct {
	parser repositories.SaleIntentParser
	logger *zap.Logger
}

// NewSaleIntentExtractor creates an extractor.
func NewSaleIntentExtractor(parser repositories.SaleIntentParser, logger *zap.Logger) *SaleIntentExtractor {
	return &SaleIntentExtractor{parser: parser, logger: logger}
}

// Extract requests extraction for one utterance. It never returns an error:
// every failure mode degrades to an editable placeholder draft.
func (e *SaleIntentExtractor) Extract(ctx context.Context, utterance string, language entities.Language) ExtractionResult {
	fields, err := e.parser.ParseSaleIntent(ctx, utterance, language)
	if err != nil {
		e.logger.Warn("sale intent extraction failed",
			zap.String("language", string(language)), zap.Error(err))
		return ExtractionResult{
			Outcome: ExtractionFailed,
			Draft:   entities.PlaceholderDraft(),
			Hint:    ExtractionHint,
		}
	}

	item := ""
	if fields.Item != nil {
		item = strings.TrimSpace(*fields.Item)
	}
	// A nil or non-positive price is unpopulated, matching the coercion
	// applied below.
	priceKnown := fields.Price != nil && *fields.Price > 0
	if item == "" && !priceKnown {
		// Neither item nor price could be determined: force manual entry
		// with zeroed fields rather than guessing.
		return ExtractionResult{
			Outcome: ExtractionLowConfidence,
			Draft:   entities.PlaceholderDraft(),
			Hint:    ExtractionHint,
		}
	}

	draft := entities.SaleDraft{
		Item: item,
		Unit: entities.UnitKilogram,
	}
	if fields.Unit != nil {
		draft.Unit = entities.ParseUnit(*fields.Unit)
	}
	if fields.Quantity != nil && *fields.Quantity > 0 {
		draft.Quantity = *fields.Quantity
	}
	if fields.Price != nil && *fields.Price > 0 {
		draft.Price = *fields.Price
	}

	e.logger.Info("sale intent extracted",
		zap.String("item", draft.Item),
		zap.Float64("quantity", draft.Quantity),
		zap.String("unit", string(draft.Unit)),
		zap.Float64("price", draft.Price))

	return ExtractionResult{Outcome: ExtractionSuccess, Draft: draft}
}
