// Package localstore is the file-backed fallback chat store used when the
// remote persistence service is unreachable.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// ChatStore persists one JSON file per user under the configured directory,
// named chat_<userId>.json.
type ChatStore struct {
	dir string
	mu  sync.Mutex
}

var _ repositories.ChatHistoryRepository = (*ChatStore)(nil)

// NewChatStore creates the store, creating dir if needed.
func NewChatStore(dir string) (*ChatStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local chat store dir: %w", err)
	}
	return &ChatStore{dir: dir}, nil
}

// GetHistory implements repositories.ChatHistoryRepository. A missing file
// means an empty history.
func (s *ChatStore) GetHistory(_ context.Context, userID string) ([]entities.ChatMessage, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.ChatMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read local chat history: %w", err)
	}

	var messages []entities.ChatMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("corrupt local chat history: %w", err)
	}
	return messages, nil
}

// PutHistory implements repositories.ChatHistoryRepository with overwrite
// semantics.
func (s *ChatStore) PutHistory(_ context.Context, userID string, messages []entities.ChatMessage) error {
	path, err := s.path(userID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode chat history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local chat history: %w", err)
	}
	return nil
}

// path validates the user id and resolves its history file.
func (s *ChatStore) path(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID cannot be empty")
	}
	// ids end up in file names; refuse anything that could escape the dir
	if strings.ContainsAny(userID, `/\.`) {
		return "", fmt.Errorf("invalid user ID %q", userID)
	}
	return filepath.Join(s.dir, "chat_"+userID+".json"), nil
}
