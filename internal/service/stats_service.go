package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/repository"
	"github.com/rs/zerolog"
)

// statsService walks the whole content tree and every comment thread
// under it to produce the admin dashboard rollup.
type statsService struct {
	repos *repository.Repositories
	log   zerolog.Logger

	// now is swapped out by tests that pin the calendar day.
	now func() time.Time
}

func newStatsService(repos *repository.Repositories, log zerolog.Logger) *statsService {
	return &statsService{
		repos: repos,
		log:   log.With().Str("component", "stats").Logger(),
		now:   time.Now,
	}
}

// threadGroupKey addresses one topic's comment collection.
func threadGroupKey(contentType, subject, module, contentID string) string {
	return contentType + "\x00" + subject + "\x00" + module + "\x00" + contentID
}

// ComputeStats walks every stored bucket, every module and every
// topic, flattening the comment thread group addressed by each
// topic's coordinates. Thread groups left behind by deleted topics
// are still flattened and counted so the totals cover every comment
// in storage.
func (s *statsService) ComputeStats(ctx context.Context) (*models.DashboardStats, error) {
	started := s.now()

	buckets, err := s.repos.Content.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}

	rows, err := s.repos.Comment.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	// Index thread roots by their topic coordinates.
	groups := make(map[string][]*models.Comment)
	for _, root := range models.BuildThreads(rows) {
		key := threadGroupKey(root.ContentType, root.Subject, root.Module, root.ContentID)
		groups[key] = append(groups[key], root)
	}

	var flattened []models.FlatComment

	// Walk the content tree, consuming the thread group at each
	// topic leaf.
	for _, sb := range buckets {
		for _, mod := range sb.Bucket.Modules {
			for _, topic := range mod.Topics {
				key := threadGroupKey(sb.ContentType, sb.Subject, mod.ID, topic.ID)
				for _, root := range groups[key] {
					flattened = append(flattened, models.Flatten(root, sb.ContentType)...)
				}
				delete(groups, key)
			}
		}
	}

	// Orphaned groups: comments whose topic no longer exists.
	for _, roots := range groups {
		for _, root := range roots {
			flattened = append(flattened, models.Flatten(root, root.ContentType)...)
		}
	}

	comments := s.classify(flattened)

	users, err := s.userStats(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("buckets", len(buckets)).
		Int("comments", comments.Total).
		Dur("elapsed", s.now().Sub(started)).
		Msg("Dashboard stats computed")

	return &models.DashboardStats{
		Users:    *users,
		Comments: comments,
	}, nil
}

// classify buckets the flattened comments into the dashboard
// counters.
func (s *statsService) classify(flattened []models.FlatComment) models.CommentStats {
	now := s.now()
	stats := models.CommentStats{Total: len(flattened)}
	for _, fc := range flattened {
		c := fc.Comment

		// A missing status is an implicit pending on legacy records.
		if c.Status == models.StatusPending || c.Status == "" {
			stats.Pending++
		}
		if c.Status == models.StatusFlagged {
			stats.Flagged++
		}

		// A malformed timestamp still counts toward total, just
		// never toward today.
		if ts, ok := models.ParsePostedAt(c.PostedAt); ok {
			if sameLocalDay(ts, now) {
				stats.Today++
			}
		}
	}
	return stats
}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// userStats runs the account rollup in the same pass.
func (s *statsService) userStats(ctx context.Context) (*models.UserStats, error) {
	total, err := s.repos.Account.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}
	active, err := s.repos.Account.CountByStatus(ctx, models.AccountActive)
	if err != nil {
		return nil, fmt.Errorf("count active accounts: %w", err)
	}
	suspended, err := s.repos.Account.CountByStatus(ctx, models.AccountSuspended)
	if err != nil {
		return nil, fmt.Errorf("count suspended accounts: %w", err)
	}
	newThisWeek, err := s.repos.Account.CountCreatedSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("count new accounts: %w", err)
	}

	return &models.UserStats{
		Total:       total,
		Active:      active,
		Suspended:   suspended,
		NewThisWeek: newThisWeek,
	}, nil
}
