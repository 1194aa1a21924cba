package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qwiksocial/backend/internal/db"
	"github.com/qwiksocial/backend/internal/models"
)

// PostgresFollowRepository provides PostgreSQL-backed persistence for follow edges.
type PostgresFollowRepository struct {
	pool db.Pool
}

// NewPostgresFollowRepository constructs a follow repository backed by PostgreSQL.
func NewPostgresFollowRepository(pool db.Pool) *PostgresFollowRepository {
	return &PostgresFollowRepository{pool: pool}
}

// Create persists a follow edge. A duplicate pair maps to ErrConflict and an
// unknown user to ErrNotFound through the table constraints, so concurrent
// identical requests cannot both insert.
func (r *PostgresFollowRepository) Create(ctx context.Context, follow models.Follow) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO follows (follower_id, following_id, created_at)
        VALUES ($1, $2, $3)
    `, follow.FollowerID, follow.FollowingID, follow.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert follow: %w", err)
	}

	return nil
}

// Delete removes a follow edge.
func (r *PostgresFollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM follows
        WHERE follower_id = $1 AND following_id = $2
    `, followerID, followingID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists reports whether followerID currently follows followingID.
func (r *PostgresFollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	row := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
        )
    `, followerID, followingID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("select follow exists: %w", err)
	}

	return exists, nil
}

// Counts aggregates follower and following totals from the edge set.
func (r *PostgresFollowRepository) Counts(ctx context.Context, userID string) (FollowCounts, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return FollowCounts{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var counts FollowCounts
	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM follows WHERE following_id = $1),
            (SELECT COUNT(*) FROM follows WHERE follower_id = $1)
    `, userID)
	if err := row.Scan(&counts.Followers, &counts.Following); err != nil {
		return FollowCounts{}, fmt.Errorf("select follow counts: %w", err)
	}

	return counts, nil
}

var _ FollowRepository = (*PostgresFollowRepository)(nil)
