package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadavo/conversational-datasets/internal/config"
	"github.com/nadavo/conversational-datasets/internal/dataset"
	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/repository"
	"github.com/rs/zerolog"
)

// buildService is the concrete implementation of BuildService
type buildService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// newBuildService creates a new BuildService
func newBuildService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *buildService {
	return &buildService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "build").Logger(),
	}
}

// CreateBuildJob validates the requested parameters and queues a
// dataset-build job. The merged parameters travel with the job row so
// the background processor reconstructs them independently of this
// process.
func (s *buildService) CreateBuildJob(ctx context.Context, req *models.BuildRequest) (*models.Job, error) {
	params := s.mergeParams(req)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	paramsJSON, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		Type:      models.JobTypeBuild,
		Status:    models.JobStatusPending,
		Params:    string(paramsJSON),
		CreatedAt: time.Now(),
	}
	job.OutputDir = filepath.Join(params.OutputDir, job.ID)

	if err := s.repos.Job.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("job_id", job.ID).
		Int("parent_depth", params.ParentDepth).
		Int("max_length", params.MaxLength).
		Int("min_length", params.MinLength).
		Float64("train_split", params.TrainSplit).
		Msg("Build job created")

	return job, nil
}

// mergeParams overlays non-zero request values on the configured defaults
func (s *buildService) mergeParams(req *models.BuildRequest) config.DatasetConfig {
	params := s.cfg.Dataset
	if req == nil {
		return params
	}
	if req.ParentDepth > 0 {
		params.ParentDepth = req.ParentDepth
	}
	if req.MaxLength > 0 {
		params.MaxLength = req.MaxLength
	}
	if req.MinLength > 0 {
		params.MinLength = req.MinLength
	}
	if req.TrainSplit > 0 {
		params.TrainSplit = req.TrainSplit
	}
	if req.NumShardsTrain > 0 {
		params.NumShardsTrain = req.NumShardsTrain
	}
	if req.NumShardsTest > 0 {
		params.NumShardsTest = req.NumShardsTest
	}
	return params
}

// ProcessBuild runs the full dataset pipeline for one build job:
// stream comments thread by thread, build linear paths, generate
// examples, shuffle, split by thread hash, and write the shard files.
func (s *buildService) ProcessBuild(ctx context.Context, job *models.Job) error {
	startTime := time.Now()
	now := startTime
	job.Status = models.JobStatusProcessing
	job.StartedAt = &now
	s.repos.Job.Update(ctx, job)

	var req models.BuildRequest
	if job.Params != "" {
		if err := json.Unmarshal([]byte(job.Params), &req); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID).Msg("Unreadable build params, using defaults")
		}
	}
	params := s.mergeParams(&req)

	s.log.Info().
		Str("job_id", job.ID).
		Str("output_dir", job.OutputDir).
		Msg("Starting dataset build")

	err := s.runPipeline(ctx, job, params)

	duration := time.Since(startTime)
	job.DurationMs = duration.Milliseconds()
	if job.TotalRecords > 0 && duration.Seconds() > 0 {
		job.RowsPerSec = float64(job.TotalRecords) / duration.Seconds()
	}

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = models.JobStatusFailed
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Build failed")
	} else {
		job.Status = models.JobStatusCompleted
		s.log.Info().
			Str("job_id", job.ID).
			Int("comments", job.TotalRecords).
			Int("threads", job.ThreadCount).
			Int("examples", job.ExampleCount).
			Int("train", job.TrainCount).
			Int("test", job.TestCount).
			Int64("duration_ms", job.DurationMs).
			Msg("Build completed")
	}

	s.repos.Job.Update(ctx, job)

	return err
}

func (s *buildService) runPipeline(ctx context.Context, job *models.Job, params config.DatasetConfig) error {
	if job.OutputDir == "" {
		job.OutputDir = filepath.Join(params.OutputDir, job.ID)
	}

	generator := &dataset.Generator{
		ParentDepth: params.ParentDepth,
		MinLength:   params.MinLength,
	}

	var examples []*dataset.Example

	// Comments arrive ordered by link_id, so each thread's comment set is
	// contiguous: normalize and hold one thread at a time, generate its
	// examples when the thread ID changes.
	thread := make(map[string]dataset.Comment)
	currentLink := ""

	flushThread := func() error {
		if len(thread) == 0 {
			return nil
		}
		job.ThreadCount++
		err := generator.FromThread(thread, func(example *dataset.Example) error {
			examples = append(examples, example)
			return nil
		})
		thread = make(map[string]dataset.Comment)
		return err
	}

	err := s.repos.Comment.StreamByThread(ctx, func(raw *models.RawComment) error {
		if raw.LinkID != currentLink {
			if err := flushThread(); err != nil {
				return err
			}
			currentLink = raw.LinkID
		}
		comment := dataset.Normalize(raw, params.MaxLength)
		thread[comment.ID] = comment
		job.TotalRecords++

		if job.TotalRecords%10000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("comment stream failed: %w", err)
	}
	if err := flushThread(); err != nil {
		return err
	}

	// Shuffling only randomizes how examples interleave within shards;
	// the train/test assignment below depends solely on the thread hash.
	dataset.Shuffle(examples)

	trainWriter, err := newShardWriter(job.OutputDir, "train", params.NumShardsTrain)
	if err != nil {
		return err
	}
	defer trainWriter.Close()

	testWriter, err := newShardWriter(job.OutputDir, "test", params.NumShardsTest)
	if err != nil {
		return err
	}
	defer testWriter.Close()

	for _, example := range examples {
		switch dataset.Assign(example.ThreadID, params.TrainSplit) {
		case dataset.SplitTrain:
			err = trainWriter.Write(example)
		case dataset.SplitTest:
			err = testWriter.Write(example)
		}
		if err != nil {
			return fmt.Errorf("shard write failed: %w", err)
		}
	}

	if err := trainWriter.Close(); err != nil {
		return err
	}
	if err := testWriter.Close(); err != nil {
		return err
	}

	job.ExampleCount = len(examples)
	job.TrainCount = trainWriter.Count()
	job.TestCount = testWriter.Count()
	job.ProcessedCount = job.TotalRecords
	job.SuccessfulCount = job.ExampleCount

	return nil
}

// ListShards returns the shard files a completed build produced
func (s *buildService) ListShards(ctx context.Context, job *models.Job) ([]models.ShardInfo, error) {
	if job.OutputDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(job.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var shards []models.ShardInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ndjson") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		split := "train"
		if strings.HasPrefix(entry.Name(), "test-") {
			split = "test"
		}
		shards = append(shards, models.ShardInfo{
			Name:      entry.Name(),
			Split:     split,
			SizeBytes: info.Size(),
		})
	}

	return shards, nil
}
