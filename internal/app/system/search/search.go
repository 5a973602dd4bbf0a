// Package search builds the Mongo filter for message search. The filter
// only narrows the candidate set; visibility is decided afterwards by
// threadpolicy, per candidate, because membership differs per searcher
// and must never be trusted from a denormalized projection.
package search

import (
	"regexp"
	"time"

	"github.com/teamonehq/teamone/internal/app/system/apperr"
	"github.com/teamonehq/teamone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Limit caps how many candidates a single search fetches, newest first.
const Limit = 100

// Params are the parsed query parameters of one search request.
// Query is mandatory; everything else narrows the candidate set.
type Params struct {
	Query    string
	ThreadID *primitive.ObjectID
	UserID   *primitive.ObjectID
	Language string
	Start    *time.Time
	End      *time.Time
	UseRegex bool
}

// BuildFilter translates Params into a Mongo filter over the messages
// collection. Without UseRegex the query is matched as a literal,
// case-insensitive substring; with it, the query is compiled as a
// pattern and an invalid pattern is a VALIDATION error.
func BuildFilter(p Params) (bson.M, error) {
	if p.Query == "" {
		return nil, apperr.Validation("search query is required")
	}

	pattern := p.Query
	if !p.UseRegex {
		pattern = regexp.QuoteMeta(p.Query)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, apperr.Validation("invalid regex pattern")
	}
	re := primitive.Regex{Pattern: pattern, Options: "i"}

	filter := bson.M{
		"$or": bson.A{
			bson.M{"content": re},
			bson.M{"blocks.content": re},
		},
	}

	if p.ThreadID != nil {
		filter["thread_id"] = *p.ThreadID
	}
	if p.UserID != nil {
		filter["sender_id"] = *p.UserID
	}
	if p.Start != nil || p.End != nil {
		created := bson.M{}
		if p.Start != nil {
			created["$gte"] = *p.Start
		}
		if p.End != nil {
			created["$lte"] = *p.End
		}
		filter["created_at"] = created
	}
	// A language filter implicitly restricts to code blocks.
	if p.Language != "" {
		filter["blocks.language"] = p.Language
		filter["blocks.type"] = models.BlockTypeCode
	}

	return filter, nil
}
