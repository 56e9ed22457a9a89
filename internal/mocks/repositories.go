package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/repository"
)

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	Buckets     map[string]*models.StoredBucket
	UpsertError error
	GetError    error
}

func NewMockContentRepository() *MockContentRepository {
	return &MockContentRepository{
		Buckets: make(map[string]*models.StoredBucket),
	}
}

func (m *MockContentRepository) GetBucket(ctx context.Context, key string) (*models.StoredBucket, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Buckets[key], nil
}

func (m *MockContentRepository) UpsertBucket(ctx context.Context, sb *models.StoredBucket, expectedVersion *int64) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	existing := m.Buckets[key(sb)]
	if expectedVersion != nil {
		if existing == nil || existing.Version != *expectedVersion {
			return fmt.Errorf("bucket %s: %w", sb.PathKey, models.ErrVersionConflict)
		}
	}
	stored := *sb
	stored.Version = 1
	stored.CreatedAt = time.Now()
	if existing != nil {
		stored.Version = existing.Version + 1
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = time.Now()
	m.Buckets[stored.PathKey] = &stored
	return nil
}

func (m *MockContentRepository) UpdateBucket(ctx context.Context, sb *models.StoredBucket, mutate func(*models.Bucket) error) error {
	existing := m.Buckets[key(sb)]
	bucket := models.EmptyBucket()
	if existing != nil {
		// Round-trip through JSON so the mutate closure cannot alias
		// stored state, matching the Postgres behavior.
		raw, err := models.EncodeBucket(existing.Bucket)
		if err != nil {
			return err
		}
		bucket, err = models.DecodeBucket(raw)
		if err != nil {
			return err
		}
	}
	if err := mutate(bucket); err != nil {
		return err
	}
	updated := *sb
	updated.Bucket = bucket
	updated.Version = 1
	updated.CreatedAt = time.Now()
	if existing != nil {
		updated.Version = existing.Version + 1
		updated.CreatedAt = existing.CreatedAt
	}
	updated.UpdatedAt = time.Now()
	m.Buckets[updated.PathKey] = &updated
	return nil
}

func (m *MockContentRepository) DeleteBucket(ctx context.Context, k string) error {
	delete(m.Buckets, k)
	return nil
}

func (m *MockContentRepository) ListBuckets(ctx context.Context) ([]*models.StoredBucket, error) {
	buckets := make([]*models.StoredBucket, 0, len(m.Buckets))
	for _, sb := range m.Buckets {
		buckets = append(buckets, sb)
	}
	return buckets, nil
}

func key(sb *models.StoredBucket) string {
	return sb.PathKey
}

// MockCommentRepository is a mock implementation of
// CommentRepository. Comments live flat in a map, votes in a nested
// map, mirroring the comments/comment_votes tables.
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    map[string]*models.Comment
	InsertError error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

func (m *MockCommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *comment
	stored.Replies = []*models.Comment{}
	m.Comments[stored.ID] = &stored
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *MockCommentRepository) ListByTarget(ctx context.Context, filter repository.CommentFilter) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []*models.Comment
	for _, c := range m.Comments {
		if c.ContentType == filter.ContentType && c.Subject == filter.Subject &&
			c.Module == filter.Module && c.ContentID == filter.ContentID {
			copied := *c
			rows = append(rows, &copied)
		}
	}
	return rows, nil
}

func (m *MockCommentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]*models.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		copied := *c
		rows = append(rows, &copied)
	}
	return rows, nil
}

func (m *MockCommentRepository) ToggleVote(ctx context.Context, commentID, userID string, kind models.VoteKind) (*models.VoteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[commentID]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	c.ApplyVote(userID, kind)
	return &models.VoteResult{
		CommentID: commentID,
		Likes:     c.Likes,
		Dislikes:  c.Dislikes,
		UserVote:  c.UserVote(userID),
	}, nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, commentID string, status models.CommentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[commentID]
	if !ok {
		return fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	c.Status = status
	return nil
}

func (m *MockCommentRepository) DeleteSubtree(ctx context.Context, commentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Comments[commentID]; !ok {
		return 0, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}

	removed := 0
	doomed := []string{commentID}
	for len(doomed) > 0 {
		id := doomed[len(doomed)-1]
		doomed = doomed[:len(doomed)-1]
		delete(m.Comments, id)
		removed++
		for _, c := range m.Comments {
			if c.ParentID == id {
				doomed = append(doomed, c.ID)
			}
		}
	}
	return removed, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	Accounts map[string]*models.Account
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[string]*models.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	m.Accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range m.Accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MockAccountRepository) Count(ctx context.Context) (int, error) {
	return len(m.Accounts), nil
}

func (m *MockAccountRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	count := 0
	for _, a := range m.Accounts {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockAccountRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	count := 0
	for _, a := range m.Accounts {
		if !a.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
