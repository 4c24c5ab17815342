package service

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nadavo/conversational-datasets/internal/config"
	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/repository"
	"github.com/nadavo/conversational-datasets/internal/validation"
	"github.com/rs/zerolog"
)

// flushValidationErrors caps memory during a bad upload: errors are
// written out every errorFlushThreshold instead of accumulating.
const errorFlushThreshold = 1000

// ingestService is the concrete implementation of IngestService
type ingestService struct {
	repos *repository.Repositories
	cfg   *config.Config
	log   zerolog.Logger
}

// newIngestService creates a new IngestService
func newIngestService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *ingestService {
	return &ingestService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "ingest").Logger(),
	}
}

// CreateIngestJob creates a new ingest job
func (s *ingestService) CreateIngestJob(ctx context.Context, req *models.IngestRequest, filePath string) (*models.Job, error) {
	job := &models.Job{
		ID:             uuid.New().String(),
		Type:           models.JobTypeIngest,
		Status:         models.JobStatusPending,
		IdempotencyKey: req.IdempotencyKey,
		FilePath:       filePath,
		CreatedAt:      time.Now(),
	}

	if err := s.repos.Job.Create(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("job_id", job.ID).
		Str("file", filePath).
		Msg("Ingest job created")

	return job, nil
}

// CommentCount returns the number of ingested comments
func (s *ingestService) CommentCount(ctx context.Context) (int, error) {
	return s.repos.Comment.Count(ctx)
}

// ProcessIngest processes an ingest job: reads the uploaded NDJSON file,
// validates each record and batch-loads the valid ones into the comments table.
func (s *ingestService) ProcessIngest(ctx context.Context, job *models.Job) error {
	startTime := time.Now()
	now := startTime
	job.Status = models.JobStatusProcessing
	job.StartedAt = &now
	s.repos.Job.Update(ctx, job)

	s.log.Info().
		Str("job_id", job.ID).
		Str("file", job.FilePath).
		Msg("Starting ingest processing")

	err := s.processCommentsNDJSON(ctx, job)

	// Calculate metrics
	duration := time.Since(startTime)
	job.DurationMs = duration.Milliseconds()
	if job.ProcessedCount > 0 && duration.Seconds() > 0 {
		job.RowsPerSec = float64(job.ProcessedCount) / duration.Seconds()
	}

	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = models.JobStatusFailed
		s.log.Error().Err(err).Str("job_id", job.ID).Msg("Ingest failed")
	} else {
		job.Status = models.JobStatusCompleted
		s.log.Info().
			Str("job_id", job.ID).
			Int("total", job.TotalRecords).
			Int("successful", job.SuccessfulCount).
			Int("failed", job.FailedCount).
			Int64("duration_ms", job.DurationMs).
			Float64("rows_per_sec", job.RowsPerSec).
			Msg("Ingest completed")
	}

	s.repos.Job.Update(ctx, job)

	return err
}

// processCommentsNDJSON streams the NDJSON file line by line
func (s *ingestService) processCommentsNDJSON(ctx context.Context, job *models.Job) error {
	file, err := os.Open(job.FilePath)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	validator := validation.NewValidator()
	batchSize := s.cfg.Ingest.BatchSize

	var batch []*models.RawComment
	var validationErrors []models.ValidationError
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		job.TotalRecords++

		// Respect context cancellation for long-running ingests
		if lineNum%10000 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		var comment models.CommentNDJSON
		if err := json.Unmarshal([]byte(line), &comment); err != nil {
			job.FailedCount++
			job.ProcessedCount++
			validationErrors = append(validationErrors, models.ValidationError{
				Line:    lineNum,
				Field:   "json",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			if len(validationErrors) >= errorFlushThreshold {
				s.flushValidationErrors(ctx, job.ID, &validationErrors)
			}
			continue
		}

		// Validate
		errors := validator.ValidateComment(&comment, lineNum)
		if len(errors) > 0 {
			job.FailedCount++
			job.ProcessedCount++
			for _, e := range errors {
				validationErrors = append(validationErrors, models.ValidationError{
					Line:    lineNum,
					Field:   e.Field,
					Message: e.Message,
					Value:   e.Value,
				})
			}
			if len(validationErrors) >= errorFlushThreshold {
				s.flushValidationErrors(ctx, job.ID, &validationErrors)
			}
			continue
		}

		batch = append(batch, &models.RawComment{
			ID:        comment.ID,
			LinkID:    comment.LinkID,
			ParentID:  comment.ParentID,
			Body:      comment.Body,
			Author:    comment.Author,
			Subreddit: comment.Subreddit,
		})
		validator.AddCommentID(comment.ID)

		// Process batch
		if len(batch) >= batchSize {
			inserted, err := s.repos.Comment.BatchInsert(ctx, batch)
			if err != nil {
				s.log.Error().Err(err).Int("batch_size", len(batch)).Msg("Batch insert failed")
				job.FailedCount += len(batch)
			} else {
				job.SuccessfulCount += inserted
			}
			job.ProcessedCount += len(batch)
			batch = batch[:0]

			s.log.Debug().
				Str("job_id", job.ID).
				Int("processed", job.ProcessedCount).
				Float64("rows_per_sec", float64(job.ProcessedCount)/time.Since(*job.StartedAt).Seconds()).
				Msg("Batch processed")
		}
	}

	// Process remaining batch
	if len(batch) > 0 {
		inserted, err := s.repos.Comment.BatchInsert(ctx, batch)
		if err != nil {
			s.log.Error().Err(err).Int("batch_size", len(batch)).Msg("Batch insert failed")
			job.FailedCount += len(batch)
		} else {
			job.SuccessfulCount += inserted
		}
		job.ProcessedCount += len(batch)
	}

	// Store remaining validation errors
	if len(validationErrors) > 0 {
		s.repos.Job.AddErrors(ctx, job.ID, validationErrors)
	}

	return scanner.Err()
}

func (s *ingestService) flushValidationErrors(ctx context.Context, jobID string, errors *[]models.ValidationError) {
	if len(*errors) == 0 {
		return
	}
	if err := s.repos.Job.AddErrors(ctx, jobID, *errors); err != nil {
		s.log.Error().Err(err).Int("count", len(*errors)).Msg("Failed to flush validation errors")
	}
	*errors = (*errors)[:0]
}
