package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/qwiksocial/backend/internal/db"
	"github.com/qwiksocial/backend/internal/models"
)

// PostgresPostRepository provides PostgreSQL-backed persistence for posts.
type PostgresPostRepository struct {
	pool db.Pool
}

// NewPostgresPostRepository constructs a post repository backed by PostgreSQL.
func NewPostgresPostRepository(pool db.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// visiblePredicate mirrors posts.Visible: the stored is_active flag is never
// trusted alone because expiry is evaluated lazily, not swept.
const visiblePredicate = `p.is_active AND (p.post_type = 'permanent' OR p.expires_at > NOW())`

const feedColumns = `
        p.id, p.user_id, p.caption, p.media_url, p.media_type, p.post_type,
        p.is_active, p.expires_at, p.converted_at, p.created_at, p.updated_at,
        (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
        (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
        EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS has_liked`

// Create stores a new post record.
func (r *PostgresPostRepository) Create(ctx context.Context, post models.Post) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO posts (id, user_id, caption, media_url, media_type, post_type, is_active, expires_at, converted_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, post.ID, post.UserID, post.Caption, post.MediaURL, post.MediaType, post.PostType,
		post.IsActive, nullableTime(post.ExpiresAt), nullableTime(post.ConvertedAt), post.CreatedAt, post.UpdatedAt)
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
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// FindVisible fetches a post by id with the viewer's engagement aggregates.
// Inactive and expired posts come back as ErrNotFound so read paths never
// reveal that such a post exists.
func (r *PostgresPostRepository) FindVisible(ctx context.Context, id string, viewerID string) (models.FeedItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.FeedItem{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT `+feedColumns+`
        FROM posts p
        WHERE p.id = $2 AND `+visiblePredicate, viewerID, id)

	item, err := scanFeedItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FeedItem{}, ErrNotFound
		}
		return models.FeedItem{}, fmt.Errorf("select visible post: %w", err)
	}

	return item, nil
}

// FindByID fetches a post regardless of visibility.
func (r *PostgresPostRepository) FindByID(ctx context.Context, id string) (models.Post, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Post{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT p.id, p.user_id, p.caption, p.media_url, p.media_type, p.post_type,
               p.is_active, p.expires_at, p.converted_at, p.created_at, p.updated_at
        FROM posts p
        WHERE p.id = $1
    `, id)

	var (
		post        models.Post
		expiresAt   sql.NullTime
		convertedAt sql.NullTime
	)
	if err := row.Scan(
		&post.ID, &post.UserID, &post.Caption, &post.MediaURL, &post.MediaType, &post.PostType,
		&post.IsActive, &expiresAt, &convertedAt, &post.CreatedAt, &post.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, fmt.Errorf("select post by id: %w", err)
	}

	post.ExpiresAt = timePtr(expiresAt)
	post.ConvertedAt = timePtr(convertedAt)
	return post, nil
}

// Update rewrites the mutable columns of an existing post.
func (r *PostgresPostRepository) Update(ctx context.Context, post models.Post) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE posts
        SET caption = $2, media_url = $3, media_type = $4, post_type = $5,
            is_active = $6, expires_at = $7, converted_at = $8, updated_at = $9
        WHERE id = $1
    `, post.ID, post.Caption, post.MediaURL, post.MediaType, post.PostType,
		post.IsActive, nullableTime(post.ExpiresAt), nullableTime(post.ConvertedAt), post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a post together with its likes and comments (cascade).
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListFeed composes the requested list view over the visible posts. The
// ordering per mode is a hard contract for pagination stability:
// created_at desc for default/following, likes desc then comments desc then
// created_at desc for trending.
func (r *PostgresPostRepository) ListFeed(ctx context.Context, q FeedQuery) ([]models.FeedItem, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + feedColumns + ` FROM posts p WHERE ` + visiblePredicate)
	args := []any{q.ViewerID}

	if q.Mode == FeedModeFollowing {
		sb.WriteString(` AND (p.user_id = $1 OR p.user_id IN (
            SELECT following_id FROM follows WHERE follower_id = $1
        ))`)
	}

	if strings.TrimSpace(q.Search) != "" {
		args = append(args, q.Search)
		sb.WriteString(fmt.Sprintf(` AND p.caption ILIKE '%%' || $%d || '%%'`, len(args)))
	}

	if q.Mode == FeedModeTrending {
		sb.WriteString(` ORDER BY likes_count DESC, comments_count DESC, p.created_at DESC`)
	} else {
		sb.WriteString(` ORDER BY p.created_at DESC`)
	}
	sb.WriteString(` LIMIT 100`)

	rows, err := conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	var items []models.FeedItem
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed: %w", err)
	}

	return items, nil
}

func scanFeedItem(row pgx.Row) (models.FeedItem, error) {
	var (
		item        models.FeedItem
		expiresAt   sql.NullTime
		convertedAt sql.NullTime
	)
	if err := row.Scan(
		&item.ID, &item.UserID, &item.Caption, &item.MediaURL, &item.MediaType, &item.PostType,
		&item.IsActive, &expiresAt, &convertedAt, &item.CreatedAt, &item.UpdatedAt,
		&item.LikesCount, &item.CommentsCount, &item.HasLiked,
	); err != nil {
		return models.FeedItem{}, err
	}

	item.ExpiresAt = timePtr(expiresAt)
	item.ConvertedAt = timePtr(convertedAt)
	return item, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Valid: true, Time: t.UTC()}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

var _ PostRepository = (*PostgresPostRepository)(nil)
