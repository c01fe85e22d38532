package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// MockUnderstanding is a placeholder understanding service for local
// development without a Gemini key.
type MockUnderstanding struct{}

var (
	_ repositories.Assistant        = (*MockUnderstanding)(nil)
	_ repositories.SaleIntentParser = (*MockUnderstanding)(nil)
)

// NewMockUnderstanding creates the mock service.
func NewMockUnderstanding() *MockUnderstanding {
	return &MockUnderstanding{}
}

// Answer implements repositories.Assistant.
func (m *MockUnderstanding) Answer(ctx context.Context, prompt, contextHint string, language entities.Language) (string, error) {
	if prompt == "" {
		return "Namaste! Ask me about market prices, weather, or your sales.", nil
	}
	return fmt.Sprintf("Good question about %q! Tomato rates are steady around 25 INR per kg today.",
		firstWords(prompt, 5)), nil
}

// ParseSaleIntent implements repositories.SaleIntentParser with a canned
// tomato sale whenever the utterance mentions one, and an undetermined
// payload otherwise.
func (m *MockUnderstanding) ParseSaleIntent(ctx context.Context, utterance string, language entities.Language) (repositories.SaleIntentFields, error) {
	if strings.Contains(strings.ToLower(utterance), "tomato") {
		item := "tomato"
		quantity := 5.0
		unit := "kg"
		price := 150.0
		return repositories.SaleIntentFields{Item: &item, Quantity: &quantity, Unit: &unit, Price: &price}, nil
	}
	return repositories.SaleIntentFields{}, nil
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
