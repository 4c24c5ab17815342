package models

import (
	"time"
)

// JobStatus represents the status of an ingest/build job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobType represents the type of job
type JobType string

const (
	JobTypeIngest JobType = "ingest"
	JobTypeBuild  JobType = "build"
)

// Job represents an ingest or dataset-build job
type Job struct {
	ID              string     `json:"job_id" db:"id"`
	Type            JobType    `json:"type" db:"type"`
	Status          JobStatus  `json:"status" db:"status"`
	IdempotencyKey  string     `json:"idempotency_key,omitempty" db:"idempotency_key"`
	TotalRecords    int        `json:"total_records" db:"total_records"`
	ProcessedCount  int        `json:"processed" db:"processed_count"`
	SuccessfulCount int        `json:"successful" db:"successful_count"`
	FailedCount     int        `json:"failed" db:"failed_count"`
	ThreadCount     int        `json:"threads,omitempty" db:"thread_count"`
	ExampleCount    int        `json:"examples,omitempty" db:"example_count"`
	TrainCount      int        `json:"train_examples,omitempty" db:"train_count"`
	TestCount       int        `json:"test_examples,omitempty" db:"test_count"`
	DurationMs      int64      `json:"duration_ms,omitempty" db:"duration_ms"`
	RowsPerSec      float64    `json:"rows_per_sec,omitempty" db:"rows_per_sec"`
	FilePath        string     `json:"-" db:"file_path"`
	OutputDir       string     `json:"output_dir,omitempty" db:"output_dir"`
	Params          string     `json:"-" db:"params"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// JobResponse is the API response for job status
type JobResponse struct {
	Job
	Errors      []ValidationError `json:"errors,omitempty"`
	ErrorCount  int               `json:"error_count,omitempty"`
	ErrorReport string            `json:"error_report_url,omitempty"`
}

// IngestRequest represents an ingest job request
type IngestRequest struct {
	IdempotencyKey string `json:"-"` // From header
}

// ShardInfo describes one output shard file of a completed build
type ShardInfo struct {
	Name      string `json:"name"`
	Split     string `json:"split"`
	SizeBytes int64  `json:"size_bytes"`
}

// BuildRequest represents a dataset-build job request. Zero values fall
// back to the configured defaults.
type BuildRequest struct {
	ParentDepth    int     `json:"parent_depth,omitempty"`
	MaxLength      int     `json:"max_length,omitempty"`
	MinLength      int     `json:"min_length,omitempty"`
	TrainSplit     float64 `json:"train_split,omitempty"`
	NumShardsTrain int     `json:"num_shards_train,omitempty"`
	NumShardsTest  int     `json:"num_shards_test,omitempty"`
}
