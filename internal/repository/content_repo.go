package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/campus-content-api/internal/database"
	"github.com/campus-content-api/internal/models"
)

// contentRepo is the concrete implementation of ContentRepository
type contentRepo struct {
	db *database.DB
}

// NewContentRepo creates a new content bucket repository
func NewContentRepo(db *database.DB) ContentRepository {
	return &contentRepo{db: db}
}

const bucketColumns = `path_key, year, semester, branch, subject, content_type, content, version, created_at, updated_at`

// GetBucket retrieves the bucket stored at the key
func (r *contentRepo) GetBucket(ctx context.Context, key string) (*models.StoredBucket, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_buckets WHERE path_key = $1`, bucketColumns)

	sb, err := scanBucket(r.db.QueryRowContext(ctx, query, key))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sb, nil
}

// UpsertBucket writes the bucket, last-write-wins unless a version
// token is supplied
func (r *contentRepo) UpsertBucket(ctx context.Context, sb *models.StoredBucket, expectedVersion *int64) error {
	raw, err := models.EncodeBucket(sb.Bucket)
	if err != nil {
		return err
	}
	now := time.Now()

	if expectedVersion == nil {
		query := `
			INSERT INTO content_buckets (path_key, year, semester, branch, subject, content_type, content, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8)
			ON CONFLICT (path_key) DO UPDATE
			SET content = EXCLUDED.content,
			    version = content_buckets.version + 1,
			    updated_at = EXCLUDED.updated_at
		`
		_, err := r.db.ExecContext(ctx, query,
			sb.PathKey, sb.Year, sb.Semester, sb.Branch, sb.Subject, sb.ContentType,
			raw, now,
		)
		return err
	}

	// Compare-and-swap against the caller's version token.
	query := `
		UPDATE content_buckets
		SET content = $2, version = version + 1, updated_at = $3
		WHERE path_key = $1 AND version = $4
	`
	res, err := r.db.ExecContext(ctx, query, sb.PathKey, raw, now, *expectedVersion)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("bucket %s at version %d: %w", sb.PathKey, *expectedVersion, models.ErrVersionConflict)
	}
	return nil
}

// UpdateBucket applies mutate to the stored content under a row lock
func (r *contentRepo) UpdateBucket(ctx context.Context, sb *models.StoredBucket, mutate func(*models.Bucket) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var raw []byte
	exists := true
	err = tx.QueryRowContext(ctx,
		`SELECT content FROM content_buckets WHERE path_key = $1 FOR UPDATE`,
		sb.PathKey,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		exists = false
	} else if err != nil {
		return err
	}

	bucket, err := models.DecodeBucket(raw)
	if err != nil {
		return err
	}
	if err := mutate(bucket); err != nil {
		return err
	}

	updated, err := models.EncodeBucket(bucket)
	if err != nil {
		return err
	}
	now := time.Now()

	if exists {
		_, err = tx.ExecContext(ctx,
			`UPDATE content_buckets SET content = $2, version = version + 1, updated_at = $3 WHERE path_key = $1`,
			sb.PathKey, updated, now,
		)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO content_buckets (path_key, year, semester, branch, subject, content_type, content, version, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8)`,
			sb.PathKey, sb.Year, sb.Semester, sb.Branch, sb.Subject, sb.ContentType,
			updated, now,
		)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteBucket removes the leaf at the key
func (r *contentRepo) DeleteBucket(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM content_buckets WHERE path_key = $1`, key)
	return err
}

// ListBuckets returns every stored bucket ordered by key
func (r *contentRepo) ListBuckets(ctx context.Context) ([]*models.StoredBucket, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_buckets ORDER BY path_key`, bucketColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*models.StoredBucket
	for rows.Next() {
		sb, err := scanBucket(rows)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, sb)
	}
	return buckets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBucket(row rowScanner) (*models.StoredBucket, error) {
	var sb models.StoredBucket
	var raw []byte
	err := row.Scan(
		&sb.PathKey, &sb.Year, &sb.Semester, &sb.Branch, &sb.Subject, &sb.ContentType,
		&raw, &sb.Version, &sb.CreatedAt, &sb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	bucket, err := models.DecodeBucket(raw)
	if err != nil {
		return nil, err
	}
	sb.Bucket = bucket
	return &sb, nil
}
