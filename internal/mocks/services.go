package mocks

import (
	"context"

	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/service"
)

// MockIngestService is a mock implementation of IngestService
type MockIngestService struct {
	CreateJobFunc func(ctx context.Context, req *models.IngestRequest, filePath string) (*models.Job, error)
	ProcessFunc   func(ctx context.Context, job *models.Job) error
	ProcessedJobs []*models.Job
	CreatedJobs   []*models.Job
	CommentTotal  int
}

// Verify interface compliance
var _ service.IngestService = (*MockIngestService)(nil)

func NewMockIngestService() *MockIngestService {
	return &MockIngestService{
		ProcessedJobs: make([]*models.Job, 0),
		CreatedJobs:   make([]*models.Job, 0),
	}
}

func (m *MockIngestService) CreateIngestJob(ctx context.Context, req *models.IngestRequest, filePath string) (*models.Job, error) {
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, req, filePath)
	}
	job := &models.Job{
		ID:     "test-ingest-job-id",
		Type:   models.JobTypeIngest,
		Status: models.JobStatusPending,
	}
	m.CreatedJobs = append(m.CreatedJobs, job)
	return job, nil
}

func (m *MockIngestService) CommentCount(ctx context.Context) (int, error) {
	return m.CommentTotal, nil
}

func (m *MockIngestService) ProcessIngest(ctx context.Context, job *models.Job) error {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, job)
	}
	m.ProcessedJobs = append(m.ProcessedJobs, job)
	job.Status = models.JobStatusCompleted
	return nil
}

// MockBuildService is a mock implementation of BuildService
type MockBuildService struct {
	CreateJobFunc func(ctx context.Context, req *models.BuildRequest) (*models.Job, error)
	ProcessFunc   func(ctx context.Context, job *models.Job) error
	Shards        []models.ShardInfo
	ProcessedJobs []*models.Job
	CreatedJobs   []*models.Job
}

// Verify interface compliance
var _ service.BuildService = (*MockBuildService)(nil)

func NewMockBuildService() *MockBuildService {
	return &MockBuildService{
		ProcessedJobs: make([]*models.Job, 0),
		CreatedJobs:   make([]*models.Job, 0),
	}
}

func (m *MockBuildService) CreateBuildJob(ctx context.Context, req *models.BuildRequest) (*models.Job, error) {
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, req)
	}
	job := &models.Job{
		ID:     "test-build-job-id",
		Type:   models.JobTypeBuild,
		Status: models.JobStatusPending,
	}
	m.CreatedJobs = append(m.CreatedJobs, job)
	return job, nil
}

func (m *MockBuildService) ProcessBuild(ctx context.Context, job *models.Job) error {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, job)
	}
	m.ProcessedJobs = append(m.ProcessedJobs, job)
	job.Status = models.JobStatusCompleted
	return nil
}

func (m *MockBuildService) ListShards(ctx context.Context, job *models.Job) ([]models.ShardInfo, error) {
	return m.Shards, nil
}

// MockJobService is a mock implementation of JobService
type MockJobService struct {
	Jobs      map[string]*models.JobResponse
	KeyedJobs map[string]*models.Job
	JobErrors map[string][]models.ValidationError
}

// Verify interface compliance
var _ service.JobService = (*MockJobService)(nil)

func NewMockJobService() *MockJobService {
	return &MockJobService{
		Jobs:      make(map[string]*models.JobResponse),
		KeyedJobs: make(map[string]*models.Job),
		JobErrors: make(map[string][]models.ValidationError),
	}
}

func (m *MockJobService) StartProcessor(ctx context.Context) {}

func (m *MockJobService) StopProcessor() {}

func (m *MockJobService) GetJob(ctx context.Context, id string) (*models.JobResponse, error) {
	return m.Jobs[id], nil
}

func (m *MockJobService) GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error) {
	return m.KeyedJobs[key], nil
}

func (m *MockJobService) GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error) {
	return m.JobErrors[id], nil
}

func (m *MockJobService) SetIngestService(ingestService service.IngestService) {}

func (m *MockJobService) SetBuildService(buildService service.BuildService) {}
