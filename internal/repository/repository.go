package repository

import (
	"context"

	"github.com/nadavo/conversational-datasets/internal/database"
	"github.com/nadavo/conversational-datasets/internal/models"
)

// CommentRepository defines the interface for raw comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.RawComment) error
	BatchInsert(ctx context.Context, comments []*models.RawComment) (int, error)
	GetByID(ctx context.Context, id string) (*models.RawComment, error)
	Count(ctx context.Context) (int, error)
	StreamByThread(ctx context.Context, callback func(*models.RawComment) error) error
}

// JobRepository defines the interface for job data operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetPendingJobs(ctx context.Context) ([]*models.Job, error)
	MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error)
	AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error
	GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
	Job     JobRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
		Job:     NewJobRepo(db),
	}
}
