package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// TieredChatHistory is the remote-then-local chat persistence policy: reads
// try the remote store and fall back to the local one; writes go to the
// remote store and land locally when that fails. Persistence is best-effort;
// no failure on this path ever reaches the user.
type TieredChatHistory struct {
	remote repositories.ChatHistoryRepository
	local  repositories.ChatHistoryRepository
	logger *zap.Logger
}

var _ repositories.ChatHistoryRepository = (*TieredChatHistory)(nil)

// NewTieredChatHistory creates the two-tier store.
func NewTieredChatHistory(remote, local repositories.ChatHistoryRepository, logger *zap.Logger) *TieredChatHistory {
	return &TieredChatHistory{remote: remote, local: local, logger: logger}
}

// GetHistory reads from the remote store, falling back to local.
func (t *TieredChatHistory) GetHistory(ctx context.Context, userID string) ([]entities.ChatMessage, error) {
	messages, err := t.remote.GetHistory(ctx, userID)
	if err == nil {
		return messages, nil
	}
	t.logger.Warn("remote chat store unavailable, reading local fallback",
		zap.String("user_id", userID), zap.Error(err))
	return t.local.GetHistory(ctx, userID)
}

// PutHistory writes to the remote store; on failure the local store absorbs
// the write and nil is returned regardless.
func (t *TieredChatHistory) PutHistory(ctx context.Context, userID string, messages []entities.ChatMessage) error {
	if err := t.remote.PutHistory(ctx, userID, messages); err != nil {
		t.logger.Warn("remote chat store unavailable, saving to local fallback",
			zap.String("user_id", userID), zap.Error(err))
		if err := t.local.PutHistory(ctx, userID, messages); err != nil {
			t.logger.Error("local chat fallback write failed",
				zap.String("user_id", userID), zap.Error(err))
		}
	}
	return nil
}
