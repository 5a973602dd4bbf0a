// internal/app/store/files/filestore.go
package filestore

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

var ErrNotFound = errors.New("file not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("files")}
}

// Create inserts a new file with its blob stored inline.
func (s *Store) Create(ctx context.Context, f models.File) (models.File, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.File{}, err
	}
	return f, nil
}

// GetByID retrieves a file, blob included.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.File, error) {
	var f models.File
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.File{}, ErrNotFound
		}
		return models.File{}, err
	}
	return f, nil
}

// GetMetaByID retrieves a file without its blob, for listings and block
// references.
func (s *Store) GetMetaByID(ctx context.Context, id primitive.ObjectID) (models.File, error) {
	opts := options.FindOne().SetProjection(bson.M{"data": 0})
	var f models.File
	if err := s.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.File{}, ErrNotFound
		}
		return models.File{}, err
	}
	return f, nil
}

// EnsureIndexes creates indexes for the files collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "thread_id", Value: 1}},
			Options: options.Index().SetName("idx_file_thread"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
