package repositories

import (
	"context"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
)

// Assistant is the chat-mode text understanding service: free-form prompt in,
// short prose answer out.
type Assistant interface {
	Answer(ctx context.Context, prompt, contextHint string, language entities.Language) (string, error)
}

// SaleIntentFields is the raw extraction payload as returned by the service,
// before local validation. A nil field means the service could not determine
// it.
type SaleIntentFields struct {
	Item     *string  `json:"item"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Price    *float64 `json:"price"`
}

// SaleIntentParser is the extraction-mode service. Implementations return
// exactly the four contract fields parsed from a strict-JSON response; any
// prose wrapper or malformed payload is an error.
type SaleIntentParser interface {
	ParseSaleIntent(ctx context.Context, utterance string, language entities.Language) (SaleIntentFields, error)
}
