package mocks

import (
	"context"
	"sort"

	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/repository"
)

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	Comments         map[string]*models.RawComment
	InsertError      error
	InsertedCount    int
	BatchInsertFunc  func(ctx context.Context, comments []*models.RawComment) (int, error)
	BatchInsertCalls int
}

// Verify interface compliance
var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.RawComment),
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.RawComment) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.Comments[comment.ID] = comment
	return nil
}

func (m *MockCommentRepository) BatchInsert(ctx context.Context, comments []*models.RawComment) (int, error) {
	m.BatchInsertCalls++
	if m.BatchInsertFunc != nil {
		return m.BatchInsertFunc(ctx, comments)
	}
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	for _, c := range comments {
		m.Comments[c.ID] = c
	}
	m.InsertedCount += len(comments)
	return len(comments), nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.RawComment, error) {
	return m.Comments[id], nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	return len(m.Comments), nil
}

// StreamByThread mirrors the real repository's contract: comments are
// delivered ordered by link_id so that threads arrive contiguously.
func (m *MockCommentRepository) StreamByThread(ctx context.Context, callback func(*models.RawComment) error) error {
	comments := make([]*models.RawComment, 0, len(m.Comments))
	for _, c := range m.Comments {
		comments = append(comments, c)
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].LinkID != comments[j].LinkID {
			return comments[i].LinkID < comments[j].LinkID
		}
		return comments[i].ID < comments[j].ID
	})

	for _, c := range comments {
		if err := callback(c); err != nil {
			return err
		}
	}
	return nil
}

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	Jobs            map[string]*models.Job
	IdempotencyJobs map[string]*models.Job
	Errors          map[string][]models.ValidationError
	CreateError     error
	UpdateError     error
}

// Verify interface compliance
var _ repository.JobRepository = (*MockJobRepository)(nil)

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{
		Jobs:            make(map[string]*models.Job),
		IdempotencyJobs: make(map[string]*models.Job),
		Errors:          make(map[string][]models.ValidationError),
	}
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Jobs[job.ID] = job
	if job.IdempotencyKey != "" {
		m.IdempotencyJobs[job.IdempotencyKey] = job
	}
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.Jobs[job.ID] = job
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	return m.Jobs[id], nil
}

func (m *MockJobRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return m.IdempotencyJobs[key], nil
}

func (m *MockJobRepository) GetPendingJobs(ctx context.Context) ([]*models.Job, error) {
	var pending []*models.Job
	for _, job := range m.Jobs {
		if job.Status == models.JobStatusPending {
			pending = append(pending, job)
		}
	}
	return pending, nil
}

func (m *MockJobRepository) MarkJobAsProcessing(ctx context.Context, jobID string) (bool, error) {
	job, exists := m.Jobs[jobID]
	if !exists || job.Status != models.JobStatusPending {
		return false, nil
	}
	job.Status = models.JobStatusProcessing
	return true, nil
}

func (m *MockJobRepository) AddErrors(ctx context.Context, jobID string, errors []models.ValidationError) error {
	m.Errors[jobID] = append(m.Errors[jobID], errors...)
	return nil
}

func (m *MockJobRepository) GetErrors(ctx context.Context, jobID string, limit int) ([]models.ValidationError, error) {
	errors := m.Errors[jobID]
	if limit > 0 && len(errors) > limit {
		errors = errors[:limit]
	}
	return errors, nil
}
