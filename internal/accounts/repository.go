package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAssignmentNotFound indicates no assignment row matched the lookup.
var ErrAssignmentNotFound = errors.New("account assignment not found")

// Repository persists account assignments.
type Repository interface {
	Create(ctx context.Context, assignment Assignment) error
	ListNamesByOwner(ctx context.Context, userID string) ([]string, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
	DeleteByName(ctx context.Context, userID, accountName string) error
}

// PostgresRepository stores assignments in PostgreSQL. Account names carry a
// unique index; whether terminus also enforces cross-user uniqueness is its
// own concern.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an assignment row.
func (r *PostgresRepository) Create(ctx context.Context, assignment Assignment) error {
	assignmentID, err := uuid.Parse(assignment.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(assignment.UserID)
	if err != nil {
		return err
	}
	createdAt := assignment.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = r.db.Exec(ctx, `INSERT INTO account_assignments (id, user_id, account_name, created_at)
        VALUES ($1, $2, $3, $4)`, assignmentID, userID, assignment.AccountName, createdAt.UTC())
	return err
}

// ListNamesByOwner returns the account names owned by a user, oldest first.
func (r *PostgresRepository) ListNamesByOwner(ctx context.Context, userID string) ([]string, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT account_name FROM account_assignments
        WHERE user_id = $1 ORDER BY created_at, account_name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountByOwner returns how many accounts a user owns.
func (r *PostgresRepository) CountByOwner(ctx context.Context, userID string) (int, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return 0, err
	}
	var count int
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM account_assignments
        WHERE user_id = $1`, ownerID).Scan(&count)
	return count, err
}

// DeleteByName removes the assignment tying an account to its owner.
func (r *PostgresRepository) DeleteByName(ctx context.Context, userID, accountName string) error {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM account_assignments
        WHERE user_id = $1 AND account_name = $2`, ownerID, accountName)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
