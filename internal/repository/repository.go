package repository

import (
	"context"
	"time"

	"github.com/campus-content-api/internal/database"
	"github.com/campus-content-api/internal/models"
)

// CommentFilter addresses one thread group: every comment attached
// to one content item of one module of one subject.
type CommentFilter struct {
	ContentType string
	Subject     string
	Module      string
	ContentID   string
}

// ContentRepository defines the interface for content bucket data operations
type ContentRepository interface {
	// GetBucket returns the stored bucket for the key, or nil when
	// the path has never been written.
	GetBucket(ctx context.Context, key string) (*models.StoredBucket, error)

	// UpsertBucket writes the bucket at its key. With a nil
	// expectedVersion the write is last-write-wins; with a version
	// the write is a compare-and-swap failing with
	// models.ErrVersionConflict on a stale token.
	UpsertBucket(ctx context.Context, sb *models.StoredBucket, expectedVersion *int64) error

	// UpdateBucket runs mutate against the current bucket content
	// under a row lock and writes the result back, creating the row
	// from an empty bucket when the path has never been written.
	UpdateBucket(ctx context.Context, sb *models.StoredBucket, mutate func(*models.Bucket) error) error

	// DeleteBucket removes the leaf at the key without affecting
	// siblings. Deleting an absent leaf is not an error.
	DeleteBucket(ctx context.Context, key string) error

	// ListBuckets returns every stored bucket, ordered by key.
	ListBuckets(ctx context.Context) ([]*models.StoredBucket, error)
}

// CommentRepository defines the interface for comment data
// operations. Comments are stored flat (id, parent_id); thread trees
// are reassembled by the service layer.
type CommentRepository interface {
	Insert(ctx context.Context, comment *models.Comment) error

	// GetByID returns the comment with its vote sets, or nil when no
	// comment has the id.
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByTarget returns every comment row (roots and replies) in
	// the addressed thread group.
	ListByTarget(ctx context.Context, filter CommentFilter) ([]*models.Comment, error)

	// ListAll returns every comment row in storage.
	ListAll(ctx context.Context) ([]*models.Comment, error)

	// ToggleVote applies the vote toggle rule for one user as a
	// single atomic read-modify-write, keeping the denormalized
	// counters equal to the vote set sizes under concurrent voters.
	ToggleVote(ctx context.Context, commentID, userID string, kind models.VoteKind) (*models.VoteResult, error)

	// UpdateStatus moves the comment into the given moderation
	// status.
	UpdateStatus(ctx context.Context, commentID string, status models.CommentStatus) error

	// DeleteSubtree removes the comment and its entire reply subtree
	// and returns the number of removed comments.
	DeleteSubtree(ctx context.Context, commentID string) (int, error)

	Count(ctx context.Context) (int, error)
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Content ContentRepository
	Comment CommentRepository
	Account AccountRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Content: NewContentRepo(db),
		Comment: NewCommentRepo(db),
		Account: NewAccountRepo(db),
	}
}
