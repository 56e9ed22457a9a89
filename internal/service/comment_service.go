package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-content-api/internal/models"
	"github.com/campus-content-api/internal/moderation"
	"github.com/campus-content-api/internal/repository"
	"github.com/campus-content-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService implements CommentService over the flat comment
// store.
type commentService struct {
	repo repository.CommentRepository
	log  zerolog.Logger
}

func newCommentService(repo repository.CommentRepository, log zerolog.Logger) *commentService {
	return &commentService{
		repo: repo,
		log:  log.With().Str("component", "comments").Logger(),
	}
}

// Create stores a new top-level comment. Every new comment starts
// pending with empty vote sets and a server-assigned timestamp.
func (s *commentService) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if errs := validation.ValidateNewComment(comment); len(errs) > 0 {
		return nil, validation.Errors(errs)
	}

	comment.ID = uuid.New().String()
	comment.ParentID = ""
	comment.Status = models.StatusPending
	comment.Likes = 0
	comment.Dislikes = 0
	comment.LikedBy = []string{}
	comment.DislikedBy = []string{}
	comment.Replies = []*models.Comment{}
	comment.PostedAt = time.Now().Format(models.PostedAtLayout)

	if err := s.repo.Insert(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("subject", comment.Subject).
		Str("module", comment.Module).
		Str("type", comment.ContentType).
		Msg("Comment created")
	return comment, nil
}

// List returns the thread trees of one content item. The status
// filter applies to root comments and defaults to approved; "all"
// disables it. A root with no status counts as pending.
func (s *commentService) List(ctx context.Context, filter repository.CommentFilter, status string) ([]*models.Comment, error) {
	if errs := validation.ValidateStatusFilter(status); len(errs) > 0 {
		return nil, validation.Errors(errs)
	}
	if status == "" {
		status = string(models.StatusApproved)
	}

	rows, err := s.repo.ListByTarget(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	threads := models.BuildThreads(rows)
	if status == "all" {
		return threads, nil
	}

	filtered := []*models.Comment{}
	for _, root := range threads {
		rootStatus := root.Status
		if rootStatus == "" {
			rootStatus = models.StatusPending
		}
		if rootStatus == models.CommentStatus(status) {
			filtered = append(filtered, root)
		}
	}
	return filtered, nil
}

// Vote toggles one user's vote on a comment. The repository applies
// the toggle atomically; this layer only validates the request.
func (s *commentService) Vote(ctx context.Context, commentID, userID string, kind models.VoteKind) (*models.VoteResult, error) {
	if userID == "" {
		return nil, validation.Errors{{Field: "userId", Message: "userId is required"}}
	}
	if kind != models.VoteLike && kind != models.VoteDislike {
		return nil, validation.Errors{{Field: "action", Message: "action must be like or dislike", Value: string(kind)}}
	}

	result, err := s.repo.ToggleVote(ctx, commentID, userID, kind)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("comment_id", commentID).
		Str("user_id", userID).
		Str("kind", string(kind)).
		Int("likes", result.Likes).
		Int("dislikes", result.Dislikes).
		Msg("Vote toggled")
	return result, nil
}

// Reply appends a new pending comment under the target, which may
// itself be a reply at any depth. Thread coordinates are inherited
// from the parent.
func (s *commentService) Reply(ctx context.Context, parentID string, reply *models.Comment) (*models.Comment, error) {
	if errs := validation.ValidateReply(reply.Author, reply.Content); len(errs) > 0 {
		return nil, validation.Errors(errs)
	}

	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("load parent comment: %w", err)
	}
	if parent == nil {
		return nil, fmt.Errorf("comment %s: %w", parentID, models.ErrNotFound)
	}

	reply.ID = uuid.New().String()
	reply.ParentID = parent.ID
	reply.Subject = parent.Subject
	reply.Module = parent.Module
	reply.ContentID = parent.ContentID
	reply.ContentType = parent.ContentType
	reply.Year = parent.Year
	reply.Semester = parent.Semester
	reply.Branch = parent.Branch
	reply.Status = models.StatusPending
	reply.Likes = 0
	reply.Dislikes = 0
	reply.LikedBy = []string{}
	reply.DislikedBy = []string{}
	reply.Replies = []*models.Comment{}
	reply.PostedAt = time.Now().Format(models.PostedAtLayout)

	if err := s.repo.Insert(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}

	s.log.Info().
		Str("comment_id", reply.ID).
		Str("parent_id", parent.ID).
		Msg("Reply created")
	return reply, nil
}

// Moderate applies an admin moderation action to a comment.
func (s *commentService) Moderate(ctx context.Context, commentID string, action moderation.Action) (models.CommentStatus, error) {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return "", fmt.Errorf("load comment: %w", err)
	}
	if comment == nil {
		return "", fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}

	next, err := moderation.Apply(comment.Status, action)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateStatus(ctx, commentID, next); err != nil {
		return "", err
	}

	s.log.Info().
		Str("comment_id", commentID).
		Str("action", string(action)).
		Str("from", string(comment.Status)).
		Str("to", string(next)).
		Msg("Comment moderated")
	return next, nil
}

// Delete hard-deletes a comment and its whole reply subtree,
// regardless of moderation state.
func (s *commentService) Delete(ctx context.Context, commentID string) (int, error) {
	removed, err := s.repo.DeleteSubtree(ctx, commentID)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Str("comment_id", commentID).
		Int("removed", removed).
		Msg("Comment subtree deleted")
	return removed, nil
}
