package service

import (
	"context"

	"github.com/campus-content-api/internal/contentpath"
	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/moderation"
	"github.com/campus-content-api/internal/repository"
	"github.com/rs/zerolog"
)

// ContentService defines the interface for content tree operations
type ContentService interface {
	// Get returns the bucket at the path, or the default empty
	// bucket when the path has never been written. A missing path is
	// valid, not an error.
	Get(ctx context.Context, path contentpath.ContentPath) (*models.StoredBucket, error)

	// Set upserts the bucket at the path. Without a version token
	// the write is last-write-wins; with one it is a
	// compare-and-swap.
	Set(ctx context.Context, path contentpath.ContentPath, bucket *models.Bucket, expectedVersion *int64) error

	// Unset removes the bucket at the path's leaf.
	Unset(ctx context.Context, path contentpath.ContentPath) error

	// UpsertTopic appends the topic to the module with the given id,
	// or creates a new module holding only the topic when no module
	// has it.
	UpsertTopic(ctx context.Context, path contentpath.ContentPath, moduleID string, topic models.Topic) (*models.Topic, string, error)
}

// CommentService defines the interface for comment thread operations
type CommentService interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	List(ctx context.Context, filter repository.CommentFilter, status string) ([]*models.Comment, error)
	Vote(ctx context.Context, commentID, userID string, kind models.VoteKind) (*models.VoteResult, error)
	Reply(ctx context.Context, parentID string, reply *models.Comment) (*models.Comment, error)
	Moderate(ctx context.Context, commentID string, action moderation.Action) (models.CommentStatus, error)
	Delete(ctx context.Context, commentID string) (int, error)
}

// StatsService defines the interface for dashboard aggregation
type StatsService interface {
	ComputeStats(ctx context.Context) (*models.DashboardStats, error)
}

// Services holds all service interfaces
type Services struct {
	Content ContentService
	Comment CommentService
	Stats   StatsService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Content: newContentService(repos.Content, log),
		Comment: newCommentService(repos.Comment, log),
		Stats:   newStatsService(repos, log),
	}
}
