package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

const defaultSaleListLimit = 50

// SaleRepository persists committed sale records in the "sales" collection.
type SaleRepository struct {
	collection *mongo.Collection
}

var _ repositories.SaleRepository = (*SaleRepository)(nil)

// NewSaleRepository creates a MongoDB sale repository.
func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{collection: db.Collection("sales")}
}

// Create implements repositories.SaleRepository.
func (r *SaleRepository) Create(ctx context.Context, record *entities.SaleRecord) error {
	if record == nil {
		return errors.New("sale record cannot be nil")
	}
	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to create sale record: %w", err)
	}
	return nil
}

// ListByUser implements repositories.SaleRepository, newest first.
func (r *SaleRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.SaleRecord, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if limit <= 0 {
		limit = defaultSaleListLimit
	}

	opts := options.Find().
		SetSort(bson.M{"recorded_at": -1}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var records []*entities.SaleRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode sale records: %w", err)
	}
	return records, nil
}
