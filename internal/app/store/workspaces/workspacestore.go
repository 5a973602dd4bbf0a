// internal/app/store/workspaces/workspacestore.go
package workspacestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateName = errors.New("a workspace with this name already exists")
	ErrNotFound      = errors.New("workspace not found")
	ErrAlreadyMember = errors.New("user already in workspace")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("workspaces")}
}

// Create inserts a new workspace. The creator is always part of the
// member set.
func (s *Store) Create(ctx context.Context, ws models.Workspace) (models.Workspace, error) {
	now := time.Now().UTC()
	ws.ID = primitive.NewObjectID()
	ws.NameCI = text.Fold(ws.Name)
	if !ws.HasMember(ws.CreatedBy) {
		ws.Members = append(ws.Members, ws.CreatedBy)
	}
	ws.CreatedAt = now
	ws.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, ws); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Workspace{}, ErrDuplicateName
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// GetByID retrieves a workspace by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	var ws models.Workspace
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ws); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, ErrNotFound
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// Find returns workspaces matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Workspace, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var workspaces []models.Workspace
	if err := cur.All(ctx, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// ListForMember returns the workspaces the given user belongs to.
func (s *Store) ListForMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	return s.Find(ctx, bson.M{"members": userID})
}

// AddMember appends a user to the member set. Returns ErrAlreadyMember if
// the user is already present.
func (s *Store) AddMember(ctx context.Context, id, userID primitive.ObjectID) (models.Workspace, error) {
	update := bson.M{
		"$push": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	// Filter excludes documents that already contain the member, so the
	// push cannot produce duplicates.
	filter := bson.M{"_id": id, "members": bson.M{"$ne": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ws models.Workspace
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ws); err != nil {
		if err == mongo.ErrNoDocuments {
			// Either the workspace is missing or the user is already a
			// member; disambiguate for the caller.
			if _, lookupErr := s.GetByID(ctx, id); lookupErr == nil {
				return models.Workspace{}, ErrAlreadyMember
			}
			return models.Workspace{}, ErrNotFound
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// Update modifies a workspace's mutable fields. Only supplied (non-zero)
// fields are written; omitted fields keep their prior value.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, name, description string, retentionMonths *int) (models.Workspace, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	if name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if description != "" {
		set["description"] = description
	}
	if retentionMonths != nil {
		set["retention_months"] = *retentionMonths
		set["retention_updated_at"] = now
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ws models.Workspace
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&ws); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return models.Workspace{}, ErrDuplicateName
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// EnsureIndexes creates indexes for the workspaces collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_workspace_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_workspace_members"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
