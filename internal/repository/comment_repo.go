package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/nadavo/conversational-datasets/internal/database"
	"github.com/nadavo/conversational-datasets/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.RawComment) error {
	query := `
		INSERT INTO comments (id, link_id, parent_id, body, author, subreddit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.LinkID, comment.ParentID, comment.Body,
		comment.Author, comment.Subreddit, time.Now(),
	)
	return err
}

// BatchInsert inserts multiple comments using PostgreSQL COPY
func (r *commentRepo) BatchInsert(ctx context.Context, comments []*models.RawComment) (int, error) {
	if len(comments) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("comments",
		"id", "link_id", "parent_id", "body", "author", "subreddit", "created_at",
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now()
	inserted := 0

	for _, comment := range comments {
		_, err := stmt.ExecContext(ctx,
			comment.ID, comment.LinkID, comment.ParentID, comment.Body,
			comment.Author, comment.Subreddit, now,
		)
		if err != nil {
			continue
		}
		inserted++
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return inserted, nil
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.RawComment, error) {
	query := `SELECT id, link_id, parent_id, body, author, subreddit, created_at FROM comments WHERE id = $1`

	var comment models.RawComment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.LinkID, &comment.ParentID, &comment.Body,
		&comment.Author, &comment.Subreddit, &comment.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

// StreamByThread streams all comments ordered by link_id, so that one
// thread's comments arrive contiguously and the build service can group
// them without holding more than one thread in memory.
func (r *commentRepo) StreamByThread(ctx context.Context, callback func(*models.RawComment) error) error {
	query := `SELECT id, link_id, parent_id, body, author, subreddit, created_at FROM comments ORDER BY link_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var comment models.RawComment
		err := rows.Scan(
			&comment.ID, &comment.LinkID, &comment.ParentID, &comment.Body,
			&comment.Author, &comment.Subreddit, &comment.CreatedAt,
		)
		if err != nil {
			return err
		}

		if err := callback(&comment); err != nil {
			return err
		}
	}

	return rows.Err()
}
