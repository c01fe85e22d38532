package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// SaleStore is the file-backed sale ledger used when MongoDB is not
// configured. One JSON file per user, named sales_<userId>.json.
type SaleStore struct {
	dir string
	mu  sync.Mutex
}

var _ repositories.SaleRepository = (*SaleStore)(nil)

// NewSaleStore creates the store, creating dir if needed.
func NewSaleStore(dir string) (*SaleStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local sale store dir: %w", err)
	}
	return &SaleStore{dir: dir}, nil
}

// Create implements repositories.SaleRepository.
func (s *SaleStore) Create(_ context.Context, record *entities.SaleRecord) error {
	path, err := s.path(record.UserID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readLocked(path)
	if err != nil {
		return err
	}
	records = append(records, record)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode sales: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local sales: %w", err)
	}
	return nil
}

// ListByUser implements repositories.SaleRepository, most recent first.
func (s *SaleStore) ListByUser(_ context.Context, userID string, limit int) ([]*entities.SaleRecord, error) {
	path, err := s.path(userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	records, err := s.readLocked(path)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RecordedAt.After(records[j].RecordedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *SaleStore) readLocked(path string) ([]*entities.SaleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*entities.SaleRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read local sales: %w", err)
	}

	var records []*entities.SaleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("corrupt local sales file: %w", err)
	}
	return records, nil
}

func (s *SaleStore) path(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID cannot be empty")
	}
	if strings.ContainsAny(userID, `/\.`) {
		return "", fmt.Errorf("invalid user ID %q", userID)
	}
	return filepath.Join(s.dir, "sales_"+userID+".json"), nil
}
