package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/campus-content-api/internal/database"
	"github.com/campus-content-api/internal/models"
)

// accountRepo is the concrete implementation of AccountRepository
type accountRepo struct {
	db *database.DB
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *database.DB) AccountRepository {
	return &accountRepo{db: db}
}

// Create inserts a new account
func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, email, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Email, account.Name, account.Role, account.Status,
		account.CreatedAt, now,
	)
	return err
}

// GetByEmail retrieves an account by email
func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT id, email, name, role, status, created_at, updated_at FROM accounts WHERE email = $1`

	var account models.Account
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.Name, &account.Role, &account.Status,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Count returns the total number of accounts
func (r *accountRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

// CountByStatus returns the number of accounts in the given status
func (r *accountRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE status = $1`, status,
	).Scan(&count)
	return count, err
}

// CountCreatedSince returns the number of accounts created at or
// after the given time
func (r *accountRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE created_at >= $1`, since,
	).Scan(&count)
	return count, err
}
