// Package llm adapts Google's Gemini API to the two understanding-service
// ports: free-form chat answers and strict-JSON sale-intent extraction.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

const (
	defaultModel        = "gemini-2.5-flash"
	chatTemperature     = 0.7
	chatMaxOutputTokens = 100
	requestTimeout      = 30 * time.Second
)

// chatFallback mirrors the assistant's voice when the model returns nothing.
const chatFallback = "Sorry, I didn't catch that."

// Gemini implements both Assistant and SaleIntentParser on one client.
type Gemini struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

var (
	_ repositories.Assistant        = (*Gemini)(nil)
	_ repositories.SaleIntentParser = (*Gemini)(nil)
)

// NewGemini creates a Gemini adapter from the GEMINI_API_KEY environment
// variable.
func NewGemini(logger *zap.Logger) (*Gemini, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Gemini{client: client, logger: logger, model: model}, nil
}

// Answer implements the chat mode: one prompt, short prose reply.
func (g *Gemini) Answer(ctx context.Context, prompt, contextHint string, language entities.Language) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemInstruction(contextHint, language), genai.RoleUser),
		Temperature:       genai.Ptr(float32(chatTemperature)),
		MaxOutputTokens:   chatMaxOutputTokens,
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Error("gemini chat request failed", zap.Error(err))
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := responseText(response)
	if text == "" {
		g.logger.Warn("gemini returned empty chat response")
		return chatFallback, nil
	}
	return text, nil
}

// ParseSaleIntent implements the extraction mode: utterance in, the four
// contract fields out. The response is requested as JSON and must parse as
// exactly that shape.
func (g *Gemini) ParseSaleIntent(ctx context.Context, utterance string, language entities.Language) (repositories.SaleIntentFields, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(saleIntentInstruction(language), genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromText(utterance, genai.RoleUser)}
	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		g.logger.Error("gemini extraction request failed", zap.Error(err))
		return repositories.SaleIntentFields{}, fmt.Errorf("gemini request failed: %w", err)
	}

	text := strings.TrimSpace(responseText(response))
	if text == "" {
		return repositories.SaleIntentFields{}, fmt.Errorf("empty extraction response")
	}

	var fields repositories.SaleIntentFields
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		g.logger.Warn("malformed extraction response",
			zap.String("response", text), zap.Error(err))
		return repositories.SaleIntentFields{}, fmt.Errorf("malformed extraction response: %w", err)
	}
	return fields, nil
}

// responseText flattens the first candidate's text parts.
func responseText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range response.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}
