package repositories

import (
	"context"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
)

// ChatHistoryRepository persists the full ordered message slice per user.
// PutHistory has overwrite semantics, not append.
type ChatHistoryRepository interface {
	GetHistory(ctx context.Context, userID string) ([]entities.ChatMessage, error)
	PutHistory(ctx context.Context, userID string, messages []entities.ChatMessage) error
}

// SaleRepository persists committed sale records.
type SaleRepository interface {
	Create(ctx context.Context, record *entities.SaleRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.SaleRecord, error)
}
