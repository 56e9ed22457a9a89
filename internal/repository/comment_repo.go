package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campus-content-api/internal/database"
	"github.com/campus-content-api/internal/models"
	"github.com/lib/pq"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// commentSelect pulls comment rows with their voter sets aggregated
// from comment_votes. Grouping by the primary key keeps the
// aggregates per comment.
const commentSelect = `
	SELECT c.id, c.parent_id, c.author, c.user_id, c.user_email, c.content,
	       c.subject, c.module, c.content_id, c.content_type,
	       c.year, c.semester, c.branch, c.status, c.likes, c.dislikes, c.posted_at,
	       COALESCE(ARRAY_AGG(v.user_id) FILTER (WHERE v.kind = 'like'), '{}') AS liked_by,
	       COALESCE(ARRAY_AGG(v.user_id) FILTER (WHERE v.kind = 'dislike'), '{}') AS disliked_by
	FROM comments c
	LEFT JOIN comment_votes v ON v.comment_id = c.id
`

// Insert stores a new comment row
func (r *commentRepo) Insert(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, parent_id, author, user_id, user_email, content,
		                      subject, module, content_id, content_type,
		                      year, semester, branch, status, likes, dislikes, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, nullable(comment.ParentID), comment.Author, comment.UserID, comment.UserEmail,
		comment.Content, comment.Subject, comment.Module, comment.ContentID, comment.ContentType,
		comment.Year, comment.Semester, comment.Branch, comment.Status,
		comment.Likes, comment.Dislikes, comment.PostedAt,
	)
	return err
}

// GetByID retrieves a comment with its vote sets
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1 GROUP BY c.id`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByTarget returns every comment row in one thread group
func (r *commentRepo) ListByTarget(ctx context.Context, filter CommentFilter) ([]*models.Comment, error) {
	query := commentSelect + `
		WHERE c.content_type = $1 AND c.subject = $2 AND c.module = $3 AND c.content_id = $4
		GROUP BY c.id
		ORDER BY c.posted_at
	`
	rows, err := r.db.QueryContext(ctx, query,
		filter.ContentType, filter.Subject, filter.Module, filter.ContentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

// ListAll returns every comment row in storage
func (r *commentRepo) ListAll(ctx context.Context) ([]*models.Comment, error) {
	query := commentSelect + ` GROUP BY c.id ORDER BY c.posted_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

// ToggleVote applies the toggle rule inside one transaction. The
// comment row is locked first so the counters and the vote set move
// together under concurrent voters.
func (r *commentRepo) ToggleVote(ctx context.Context, commentID, userID string, kind models.VoteKind) (*models.VoteResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var likes, dislikes int
	err = tx.QueryRowContext(ctx,
		`SELECT likes, dislikes FROM comments WHERE id = $1 FOR UPDATE`,
		commentID,
	).Scan(&likes, &dislikes)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var existing models.VoteKind
	hasVote := true
	err = tx.QueryRowContext(ctx,
		`SELECT kind FROM comment_votes WHERE comment_id = $1 AND user_id = $2`,
		commentID, userID,
	).Scan(&existing)
	if err == sql.ErrNoRows {
		hasVote = false
	} else if err != nil {
		return nil, err
	}

	var userVote *models.VoteKind
	switch {
	case hasVote && existing == kind:
		// Repeated identical vote removes it.
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comment_votes WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID,
		); err != nil {
			return nil, err
		}
	case hasVote:
		// Opposite vote replaces the prior one.
		if _, err := tx.ExecContext(ctx,
			`UPDATE comment_votes SET kind = $3 WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID, kind,
		); err != nil {
			return nil, err
		}
		k := kind
		userVote = &k
	default:
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comment_votes (comment_id, user_id, kind) VALUES ($1, $2, $3)`,
			commentID, userID, kind,
		); err != nil {
			return nil, err
		}
		k := kind
		userVote = &k
	}

	// Recompute the denormalized counters from the vote set inside
	// the same transaction, keeping likes == |likedBy| invariant.
	err = tx.QueryRowContext(ctx, `
		UPDATE comments SET
			likes = (SELECT COUNT(*) FROM comment_votes WHERE comment_id = $1 AND kind = 'like'),
			dislikes = (SELECT COUNT(*) FROM comment_votes WHERE comment_id = $1 AND kind = 'dislike')
		WHERE id = $1
		RETURNING likes, dislikes
	`, commentID).Scan(&likes, &dislikes)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.VoteResult{
		CommentID: commentID,
		Likes:     likes,
		Dislikes:  dislikes,
		UserVote:  userVote,
	}, nil
}

// UpdateStatus moves a comment into a new moderation status
func (r *commentRepo) UpdateStatus(ctx context.Context, commentID string, status models.CommentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET status = $2 WHERE id = $1`,
		commentID, status,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	return nil
}

// DeleteSubtree removes a comment and its whole reply subtree
func (r *commentRepo) DeleteSubtree(ctx context.Context, commentID string) (int, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM subtree)
	`
	res, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, fmt.Errorf("comment %s: %w", commentID, models.ErrNotFound)
	}
	return int(affected), nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	return count, err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var parentID sql.NullString
	var likedBy, dislikedBy pq.StringArray
	err := row.Scan(
		&c.ID, &parentID, &c.Author, &c.UserID, &c.UserEmail, &c.Content,
		&c.Subject, &c.Module, &c.ContentID, &c.ContentType,
		&c.Year, &c.Semester, &c.Branch, &c.Status, &c.Likes, &c.Dislikes, &c.PostedAt,
		&likedBy, &dislikedBy,
	)
	if err != nil {
		return nil, err
	}
	c.ParentID = parentID.String
	c.LikedBy = []string(likedBy)
	c.DislikedBy = []string(dislikedBy)
	c.Replies = []*models.Comment{}
	return &c, nil
}

func collectComments(rows *sql.Rows) ([]*models.Comment, error) {
	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
