// internal/app/store/threads/threadstore.go
package threadstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	ErrNotFound      = errors.New("thread not found")
	ErrDuplicatePair = errors.New("a personal thread between these users already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("threads")}
}

// Create inserts a new thread. Personal threads get their sorted pair key
// stamped so the unique index can reject a second thread for the same two
// users.
func (s *Store) Create(ctx context.Context, th models.Thread) (models.Thread, error) {
	now := time.Now().UTC()
	th.ID = primitive.NewObjectID()
	if th.Type == models.ThreadTypePersonal && len(th.Members) == 2 {
		th.MemberKey = models.PersonalMemberKey(th.Members[0], th.Members[1])
	}
	th.LastMessageAt = now
	th.CreatedAt = now
	th.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, th); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Thread{}, ErrDuplicatePair
		}
		return models.Thread{}, err
	}
	return th, nil
}

// GetByID retrieves a thread by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Thread, error) {
	var th models.Thread
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&th); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Thread{}, ErrNotFound
		}
		return models.Thread{}, err
	}
	return th, nil
}

// GetPersonalPair looks up the personal thread between two users,
// regardless of argument order. Returns ErrNotFound if none exists.
func (s *Store) GetPersonalPair(ctx context.Context, a, b primitive.ObjectID) (models.Thread, error) {
	var th models.Thread
	filter := bson.M{
		"type":       models.ThreadTypePersonal,
		"member_key": models.PersonalMemberKey(a, b),
	}
	if err := s.c.FindOne(ctx, filter).Decode(&th); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Thread{}, ErrNotFound
		}
		return models.Thread{}, err
	}
	return th, nil
}

// ListPersonal returns all personal threads containing the given user,
// most recently active first.
func (s *Store) ListPersonal(ctx context.Context, userID primitive.ObjectID) ([]models.Thread, error) {
	filter := bson.M{
		"type":    models.ThreadTypePersonal,
		"members": userID,
	}
	return s.find(ctx, filter)
}

// ListWorkspace returns the threads of a workspace visible to the given
// user: public threads plus private threads the user belongs to, most
// recently active first. The caller is responsible for the workspace
// membership gate.
func (s *Store) ListWorkspace(ctx context.Context, workspaceID, userID primitive.ObjectID) ([]models.Thread, error) {
	filter := bson.M{
		"workspace_id": workspaceID,
		"type":         models.ThreadTypeWorkspace,
		"$or": bson.A{
			bson.M{"is_public": true},
			bson.M{"members": userID},
		},
	}
	return s.find(ctx, filter)
}

// ListWorkspaceAll returns every thread of a workspace without a
// visibility filter. Admin listings use this.
func (s *Store) ListWorkspaceAll(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Thread, error) {
	filter := bson.M{
		"workspace_id": workspaceID,
		"type":         models.ThreadTypeWorkspace,
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Thread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var threads []models.Thread
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// UpdateFields holds the partial-update payload for a thread. Nil pointers
// mean "leave unchanged".
type UpdateFields struct {
	Title       *string
	Description *string
	IsArchived  *bool
	Pinned      *bool
	Members     []primitive.ObjectID
}

// Update applies a partial update. The member set is only replaceable on
// non-public threads; the caller enforces that before building Fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, f UpdateFields) (models.Thread, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if f.Title != nil {
		set["title"] = *f.Title
	}
	if f.Description != nil {
		set["description"] = *f.Description
	}
	if f.IsArchived != nil {
		set["is_archived"] = *f.IsArchived
	}
	if f.Pinned != nil {
		set["pinned"] = *f.Pinned
	}
	if f.Members != nil {
		set["members"] = f.Members
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var th models.Thread
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&th); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Thread{}, ErrNotFound
		}
		return models.Thread{}, err
	}
	return th, nil
}

// TouchLastMessage stamps the thread's last-message time. Called on every
// successful message send.
func (s *Store) TouchLastMessage(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"last_message_at": at.UTC(),
		"updated_at":      at.UTC(),
	}})
	return err
}

// EnsureIndexes creates indexes for the threads collection. The sparse
// unique member_key index is the hardening against the benign create race:
// two concurrent personal-thread creations between the same pair cannot
// both land.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("idx_thread_member_key"),
		},
		{
			Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().SetName("idx_thread_workspace_type"),
		},
		{
			Keys:    bson.D{{Key: "last_message_at", Value: -1}},
			Options: options.Index().SetName("idx_thread_last_message_at"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
