package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
	"github.com/BISWAJIT-BARAL01/FreshMart/domain/repositories"
)

// chatDocument is the stored shape: one document per user holding the full
// ordered message slice.
type chatDocument struct {
	UserID      string                 `bson:"user_id"`
	Messages    []entities.ChatMessage `bson:"messages"`
	LastUpdated time.Time              `bson:"last_updated"`
}

// ChatRepository persists chat histories in the "chats" collection with
// overwrite-on-write semantics.
type ChatRepository struct {
	collection *mongo.Collection
}

var _ repositories.ChatHistoryRepository = (*ChatRepository)(nil)

// NewChatRepository creates a MongoDB chat history repository.
func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{collection: db.Collection("chats")}
}

// GetHistory implements repositories.ChatHistoryRepository. A user with no
// document yet gets an empty history, not an error.
func (r *ChatRepository) GetHistory(ctx context.Context, userID string) ([]entities.ChatMessage, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	var doc chatDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []entities.ChatMessage{}, nil
		}
		return nil, fmt.Errorf("failed to get chat history for user %s: %w", userID, err)
	}
	return doc.Messages, nil
}

// PutHistory implements repositories.ChatHistoryRepository: upsert of the
// full message array keyed by user id.
func (r *ChatRepository) PutHistory(ctx context.Context, userID string, messages []entities.ChatMessage) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"user_id":      userID,
			"messages":     messages,
			"last_updated": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, opts); err != nil {
		return fmt.Errorf("failed to save chat history for user %s: %w", userID, err)
	}
	return nil
}
