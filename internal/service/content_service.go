package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-content-api/internal/contentpath"
	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// contentService implements ContentService over the bucket
// repository. Each bucket row is an independently versioned storage
// unit addressed by the encoded content path.
type contentService struct {
	repo repository.ContentRepository
	log  zerolog.Logger
}

func newContentService(repo repository.ContentRepository, log zerolog.Logger) *contentService {
	return &contentService{
		repo: repo,
		log:  log.With().Str("component", "content").Logger(),
	}
}

// Get returns the stored bucket or the default empty one
func (s *contentService) Get(ctx context.Context, path contentpath.ContentPath) (*models.StoredBucket, error) {
	key, err := contentpath.Encode(path)
	if err != nil {
		return nil, err
	}

	sb, err := s.repo.GetBucket(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get bucket %s: %w", key, err)
	}
	if sb == nil {
		// Never written: "no content yet" is a valid answer.
		return &models.StoredBucket{
			PathKey:     key,
			Year:        path.Year,
			Semester:    path.Semester,
			Branch:      path.Branch,
			Subject:     path.Subject,
			ContentType: path.ContentType,
			Bucket:      models.EmptyBucket(),
		}, nil
	}
	return sb, nil
}

// Set upserts the bucket at the path
func (s *contentService) Set(ctx context.Context, path contentpath.ContentPath, bucket *models.Bucket, expectedVersion *int64) error {
	key, err := contentpath.Encode(path)
	if err != nil {
		return err
	}
	if bucket == nil {
		bucket = models.EmptyBucket()
	}
	if err := validateBucketIDs(bucket); err != nil {
		return err
	}

	sb := &models.StoredBucket{
		PathKey:     key,
		Year:        path.Year,
		Semester:    path.Semester,
		Branch:      path.Branch,
		Subject:     path.Subject,
		ContentType: path.ContentType,
		Bucket:      bucket,
	}
	if err := s.repo.UpsertBucket(ctx, sb, expectedVersion); err != nil {
		return fmt.Errorf("set bucket %s: %w", key, err)
	}

	s.log.Info().Str("path_key", key).Int("modules", len(bucket.Modules)).Msg("Bucket written")
	return nil
}

// Unset removes the bucket at the path's leaf
func (s *contentService) Unset(ctx context.Context, path contentpath.ContentPath) error {
	key, err := contentpath.Encode(path)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBucket(ctx, key); err != nil {
		return fmt.Errorf("unset bucket %s: %w", key, err)
	}
	s.log.Info().Str("path_key", key).Msg("Bucket removed")
	return nil
}

// UpsertTopic appends the topic to an existing module or creates a
// new one. The whole read-modify-write runs under the repository's
// row lock.
func (s *contentService) UpsertTopic(ctx context.Context, path contentpath.ContentPath, moduleID string, topic models.Topic) (*models.Topic, string, error) {
	key, err := contentpath.Encode(path)
	if err != nil {
		return nil, "", err
	}

	if topic.ID == "" {
		topic.ID = uuid.New().String()
	}
	targetModuleID := moduleID
	created := false

	sb := &models.StoredBucket{
		PathKey:     key,
		Year:        path.Year,
		Semester:    path.Semester,
		Branch:      path.Branch,
		Subject:     path.Subject,
		ContentType: path.ContentType,
	}
	err = s.repo.UpdateBucket(ctx, sb, func(bucket *models.Bucket) error {
		if targetModuleID != "" {
			if mod := bucket.FindModule(targetModuleID); mod != nil {
				if mod.HasTopic(topic.ID) {
					return fmt.Errorf("topic %s in module %s: %w", topic.ID, mod.ID, models.ErrTopicConflict)
				}
				mod.Topics = append(mod.Topics, topic)
				return nil
			}
		}

		// No matching module: create one holding only this topic.
		if targetModuleID == "" {
			targetModuleID = deriveModuleID()
		}
		if bucket.FindModule(targetModuleID) != nil {
			return fmt.Errorf("module %s: %w", targetModuleID, models.ErrModuleConflict)
		}
		bucket.Modules = append(bucket.Modules, models.Module{
			ID:     targetModuleID,
			Name:   fmt.Sprintf("Module %d", len(bucket.Modules)+1),
			Topics: []models.Topic{topic},
		})
		created = true
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.log.Info().
		Str("path_key", key).
		Str("module_id", targetModuleID).
		Str("topic_id", topic.ID).
		Bool("module_created", created).
		Msg("Topic stored")
	return &topic, targetModuleID, nil
}

// deriveModuleID produces a time-derived id for a module created
// implicitly by a topic upload.
func deriveModuleID() string {
	return fmt.Sprintf("mod-%d", time.Now().UnixMilli())
}

// validateBucketIDs rejects buckets carrying duplicate module ids,
// or duplicate topic ids within a module, before they reach storage.
func validateBucketIDs(b *models.Bucket) error {
	moduleIDs := make(map[string]bool, len(b.Modules))
	for _, mod := range b.Modules {
		if mod.ID != "" && moduleIDs[mod.ID] {
			return fmt.Errorf("module %s: %w", mod.ID, models.ErrModuleConflict)
		}
		moduleIDs[mod.ID] = true

		topicIDs := make(map[string]bool, len(mod.Topics))
		for _, topic := range mod.Topics {
			if topic.ID != "" && topicIDs[topic.ID] {
				return fmt.Errorf("topic %s in module %s: %w", topic.ID, mod.ID, models.ErrTopicConflict)
			}
			topicIDs[topic.ID] = true
		}
	}
	return nil
}
