package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an approved test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: "test-hash",
		Role:         role,
		IsApproved:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates an approved test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateMember creates an approved test member user.
func (f *Fixtures) CreateMember(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleMember)
}

// CreatePendingUser creates a test user awaiting approval.
func (f *Fixtures) CreatePendingUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: "test-hash",
		Role:         models.RoleMember,
		IsApproved:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create pending test user: %v", err)
	}
	return user
}

// CreateWorkspace creates a test workspace owned by createdBy with the
// given members. The creator is always included in the member set.
func (f *Fixtures) CreateWorkspace(ctx context.Context, name string, createdBy primitive.ObjectID, members ...primitive.ObjectID) models.Workspace {
	f.t.Helper()

	all := append([]primitive.ObjectID{createdBy}, members...)
	now := time.Now().UTC()
	ws := models.Workspace{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: createdBy,
		Members:   all,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create test workspace: %v", err)
	}
	return ws
}

// CreateThread creates a workspace thread. Pass isPublic=false and
// members to model a private thread.
func (f *Fixtures) CreateThread(ctx context.Context, wsID primitive.ObjectID, title string, isPublic bool, createdBy primitive.ObjectID, members ...primitive.ObjectID) models.Thread {
	f.t.Helper()

	now := time.Now().UTC()
	th := models.Thread{
		ID:            primitive.NewObjectID(),
		WorkspaceID:   &wsID,
		Type:          models.ThreadTypeWorkspace,
		Title:         title,
		IsPublic:      isPublic,
		Members:       members,
		CreatedBy:     createdBy,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("failed to create test thread: %v", err)
	}
	return th
}

// CreatePersonalThread creates a personal thread between two users,
// member key included.
func (f *Fixtures) CreatePersonalThread(ctx context.Context, a, b primitive.ObjectID) models.Thread {
	f.t.Helper()

	now := time.Now().UTC()
	th := models.Thread{
		ID:            primitive.NewObjectID(),
		Type:          models.ThreadTypePersonal,
		Members:       []primitive.ObjectID{a, b},
		MemberKey:     models.PersonalMemberKey(a, b),
		CreatedBy:     a,
		LastMessageAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("threads").InsertOne(ctx, th); err != nil {
		f.t.Fatalf("failed to create test personal thread: %v", err)
	}
	return th
}

// CreateMessage creates a plain text message in the given thread.
func (f *Fixtures) CreateMessage(ctx context.Context, threadID, senderID primitive.ObjectID, content string) models.Message {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Message{
		ID:        primitive.NewObjectID(),
		ThreadID:  threadID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return m
}

// CreateCodeMessage creates a message holding a single code block.
func (f *Fixtures) CreateCodeMessage(ctx context.Context, threadID, senderID primitive.ObjectID, code, language string) models.Message {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Message{
		ID:       primitive.NewObjectID(),
		ThreadID: threadID,
		SenderID: senderID,
		Blocks: []models.Block{
			{Type: models.BlockTypeCode, Content: code, Language: language},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test code message: %v", err)
	}
	return m
}

// CreateFile creates an uploaded file with an inline blob.
func (f *Fixtures) CreateFile(ctx context.Context, threadID, uploaderID primitive.ObjectID, name, mimeType string, data []byte) models.File {
	f.t.Helper()

	now := time.Now().UTC()
	file := models.File{
		ID:           primitive.NewObjectID(),
		OriginalName: name,
		Data:         data,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		UploaderID:   uploaderID,
		ThreadID:     threadID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("files").InsertOne(ctx, file); err != nil {
		f.t.Fatalf("failed to create test file: %v", err)
	}
	return file
}
