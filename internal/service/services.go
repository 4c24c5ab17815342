package service

import (
	"context"

	"github.com/nadavo/conversational-datasets/internal/config"
	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/repository"
	"github.com/rs/zerolog"
)

// IngestService defines the interface for comment ingest operations
type IngestService interface {
	CreateIngestJob(ctx context.Context, req *models.IngestRequest, filePath string) (*models.Job, error)
	ProcessIngest(ctx context.Context, job *models.Job) error
	CommentCount(ctx context.Context) (int, error)
}

// BuildService defines the interface for dataset-build operations
type BuildService interface {
	CreateBuildJob(ctx context.Context, req *models.BuildRequest) (*models.Job, error)
	ProcessBuild(ctx context.Context, job *models.Job) error
	ListShards(ctx context.Context, job *models.Job) ([]models.ShardInfo, error)
}

// JobService defines the interface for job management
type JobService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	GetJob(ctx context.Context, id string) (*models.JobResponse, error)
	GetJobByIdempotencyKey(ctx context.Context, key string) (*models.Job, error)
	GetJobErrors(ctx context.Context, id string) ([]models.ValidationError, error)
	SetIngestService(ingestService IngestService)
	SetBuildService(buildService BuildService)
}

// Services holds all service interfaces
type Services struct {
	Ingest IngestService
	Build  BuildService
	Job    JobService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	jobSvc := newJobService(repos.Job, log)
	ingestSvc := newIngestService(repos, cfg, log)
	buildSvc := newBuildService(repos, cfg, log)

	// Wire up the job processor to both job types
	jobSvc.SetIngestService(ingestSvc)
	jobSvc.SetBuildService(buildSvc)

	return &Services{
		Ingest: ingestSvc,
		Build:  buildSvc,
		Job:    jobSvc,
	}
}
