package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nadavo/conversational-datasets/internal/config"
	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/service"
	"github.com/rs/zerolog"
)

// BuildHandler handles dataset build endpoints
type BuildHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewBuildHandler creates a new BuildHandler
func NewBuildHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *BuildHandler {
	return &BuildHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "build").Logger(),
	}
}

// CreateBuild handles POST /v1/builds
// The optional JSON body overrides the configured dataset parameters.
func (h *BuildHandler) CreateBuild(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.BuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid build request body"})
			return
		}
	}

	job, err := h.services.Build.CreateBuildJob(ctx, &req)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create build job")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info().Str("job_id", job.ID).Msg("Build job created")

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "Build job created and queued for processing",
	})
}

// GetBuildStatus handles GET /v1/builds/:job_id
func (h *BuildHandler) GetBuildStatus(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id is required"})
		return
	}

	job, err := h.services.Job.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job status"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListShards handles GET /v1/builds/:job_id/shards
func (h *BuildHandler) ListShards(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("job_id")

	job, err := h.services.Job.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if job.Status != models.JobStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "build is not completed", "status": job.Status})
		return
	}

	shards, err := h.services.Build.ListShards(ctx, &job.Job)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to list shards")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list shards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": jobID,
		"count":  len(shards),
		"shards": shards,
	})
}

// DownloadShard handles GET /v1/builds/:job_id/shards/:shard
// Streams one shard file of a completed build.
func (h *BuildHandler) DownloadShard(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("job_id")
	shard := c.Param("shard")

	// Shard names are generated by the build; anything with a path
	// separator is an attempted traversal.
	if shard == "" || strings.ContainsAny(shard, "/\\") || !strings.HasSuffix(shard, ".ndjson") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shard name"})
		return
	}

	job, err := h.services.Job.GetJob(ctx, jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get job"})
		return
	}
	if job == nil || job.OutputDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	path := filepath.Join(job.OutputDir, shard)
	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Content-Disposition", "attachment; filename="+shard)
	c.File(path)
}
