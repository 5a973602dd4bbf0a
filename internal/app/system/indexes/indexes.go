// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	filestore "github.com/teamonehq/teamone/internal/app/store/files"
	messagestore "github.com/teamonehq/teamone/internal/app/store/messages"
	threadstore "github.com/teamonehq/teamone/internal/app/store/threads"
	userstore "github.com/teamonehq/teamone/internal/app/store/users"
	workspacestore "github.com/teamonehq/teamone/internal/app/store/workspaces"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
EnsureAll is called at startup. Each store's EnsureIndexes is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := workspacestore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "workspaces: "+err.Error())
	}
	if err := threadstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "threads: "+err.Error())
	}
	if err := messagestore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "messages: "+err.Error())
	}
	if err := filestore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "files: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
