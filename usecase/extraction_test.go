package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// parserFunc adapts a function to the SaleIntentParser interface.
type parserFunc func(ctx context.Context, utterance string, language entities.Language) (repositories.SaleIntentFields, error)

func (f parserFunc) ParseSaleIntent(ctx context.Context, utterance string, language entities.Language) (repositories.SaleIntentFields, error) {
	return f(ctx, utterance, language)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestExtractSuccess(t *testing.T) {
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{
			Item:     strPtr("Tomato"),
			Quantity: floatPtr(5),
			Unit:     strPtr("kg"),
			Price:    floatPtr(150),
		}, nil
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "tomato five kilo one fifty", entities.LanguageEnglish)
	if result.Outcome != ExtractionSuccess {
		t.Fatalf("Expected success, got %s", result.Outcome)
	}
	want := entities.SaleDraft{Item: "Tomato", Quantity: 5, Unit: entities.UnitKilogram, Price: 150}
	if result.Draft != want {
		t.Errorf("Unexpected draft: %+v", result.Draft)
	}
	if result.Hint != "" {
		t.Errorf("Expected no hint on success, got %q", result.Hint)
	}
}

func TestExtractMissingUnitDefaultsToKg(t *testing.T) {
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{
			Item:     strPtr("Onion"),
			Quantity: floatPtr(50),
			Price:    floatPtr(1000),
		}, nil
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "onion fifty for thousand", entities.LanguageEnglish)
	if result.Outcome != ExtractionSuccess {
		t.Fatalf("Expected success, got %s", result.Outcome)
	}
	if result.Draft.Unit != entities.UnitKilogram {
		t.Errorf("Expected kg default, got %s", result.Draft.Unit)
	}
	if result.Draft.ConfidenceLow {
		t.Error("A missing unit alone must not lower confidence")
	}
}

func TestExtractAllNullsIsLowConfidence(t *testing.T) {
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{}, nil
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "mumble mumble", entities.LanguageEnglish)
	if result.Outcome != ExtractionLowConfidence {
		t.Fatalf("Expected low confidence, got %s", result.Outcome)
	}
	if !result.Draft.ConfidenceLow {
		t.Error("Expected ConfidenceLow on the draft")
	}
	if result.Draft.Item != "" || result.Draft.Quantity != 0 || result.Draft.Price != 0 {
		t.Errorf("Expected zeroed placeholder, got %+v", result.Draft)
	}
	if result.Hint != ExtractionHint {
		t.Errorf("Expected hint %q, got %q", ExtractionHint, result.Hint)
	}
}

func TestExtractZeroPriceAloneIsLowConfidence(t *testing.T) {
	// A non-positive price carries no more signal than a null one: without
	// an item the result is the zeroed placeholder, not a reviewable draft.
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{Price: floatPtr(0)}, nil
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "hmm", entities.LanguageEnglish)
	if result.Outcome != ExtractionLowConfidence {
		t.Fatalf("Expected low confidence, got %s", result.Outcome)
	}
	if !result.Draft.ConfidenceLow {
		t.Error("Expected ConfidenceLow on the draft")
	}
	if result.Hint != ExtractionHint {
		t.Errorf("Expected hint %q, got %q", ExtractionHint, result.Hint)
	}
}

func TestExtractParserFailure(t *testing.T) {
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{}, errors.New("upstream timeout")
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "tomato five kilo", entities.LanguageEnglish)
	if result.Outcome != ExtractionFailed {
		t.Fatalf("Expected failed, got %s", result.Outcome)
	}
	if !result.Draft.ConfidenceLow {
		t.Error("Expected placeholder draft")
	}
	if result.Hint != ExtractionHint {
		t.Errorf("Expected hint %q, got %q", ExtractionHint, result.Hint)
	}
}

func TestExtractPriceOnlyStillSucceeds(t *testing.T) {
	// A price without an item is enough signal to avoid the placeholder:
	// the user fixes the item in the editor.
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{Price: floatPtr(40)}, nil
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "forty rupees", entities.LanguageEnglish)
	if result.Outcome != ExtractionSuccess {
		t.Fatalf("Expected success, got %s", result.Outcome)
	}
	if result.Draft.Price != 40 {
		t.Errorf("Expected price 40, got %v", result.Draft.Price)
	}
}

func TestExtractNegativeValuesDropped(t *testing.T) {
	parser := parserFunc(func(context.Context, string, entities.Language) (repositories.SaleIntentFields, error) {
		return repositories.SaleIntentFields{
			Item:     strPtr("Tomato"),
			Quantity: floatPtr(-5),
			Price:    floatPtr(-150),
		}, nil
	})
	extractor := NewSaleIntentExtractor(parser, zaptest.NewLogger(t))

	result := extractor.Extract(context.Background(), "tomato", entities.LanguageEnglish)
	if result.Draft.Quantity != 0 || result.Draft.Price != 0 {
		t.Errorf("Expected negative values dropped, got %+v", result.Draft)
	}
}
