// internal/app/store/messages/messagestore.go
package messagestore

import (
	"context"
	"errors"
	"time"

	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("message not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Create inserts a new message.
func (s *Store) Create(ctx context.Context, m models.Message) (models.Message, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// GetByID retrieves a message by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Message, error) {
	var m models.Message
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Message{}, ErrNotFound
		}
		return models.Message{}, err
	}
	return m, nil
}

// ListByThread returns all messages of a thread, oldest first. Callers
// needing pagination wrap this.
func (s *Store) ListByThread(ctx context.Context, threadID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"thread_id": threadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Update replaces content and/or blocks. Empty values preserve the prior
// field; the edited flag is set unconditionally and never reset.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, content string, blocks []models.Block) (models.Message, error) {
	set := bson.M{
		"is_edited":  true,
		"updated_at": time.Now().UTC(),
	}
	if content != "" {
		set["content"] = content
	}
	if len(blocks) > 0 {
		set["blocks"] = blocks
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Message
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Message{}, ErrNotFound
		}
		return models.Message{}, err
	}
	return m, nil
}

// Delete removes a message by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Search returns up to limit messages matching the given filter, newest
// first. The filter is built by the search system package; access control
// happens after, per candidate.
func (s *Store) Search(ctx context.Context, filter bson.M, limit int64) ([]models.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var messages []models.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// EnsureIndexes creates indexes for the messages collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_message_thread_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_message_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "blocks.language", Value: 1}},
			Options: options.Index().SetName("idx_message_block_language"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
