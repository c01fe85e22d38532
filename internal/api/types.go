package api

import (
	"time"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
)

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name"`
}

// LoginResponse represents the response payload for user login
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	UserID    string        `json:"user_id"`
	Role      entities.Role `json:"role"`
}

// ChatHistoryRequest carries a full conversation snapshot for overwrite.
type ChatHistoryRequest struct {
	Messages []entities.ChatMessage `json:"messages"`
}

// ChatHistoryResponse returns a user's conversation in insertion order.
type ChatHistoryResponse struct {
	UserID   string                 `json:"user_id"`
	Messages []entities.ChatMessage `json:"messages"`
}

// SaleRequest represents a sale draft submitted for commit.
type SaleRequest struct {
	Item     string  `json:"item" validate:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price" validate:"required"`
}

// SalesResponse returns a user's recorded sales, most recent first.
type SalesResponse struct {
	UserID string                 `json:"user_id"`
	Sales  []*entities.SaleRecord `json:"sales"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
