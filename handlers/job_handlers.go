package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/middleware"
	"resumeflow/ingest-gateway/models"
	"resumeflow/ingest-gateway/utils"
)

// JobStatusResponse is the payload of GET /api/v1/jobs/:jobId.
type JobStatusResponse struct {
	Job    *models.ResumeJob      `json:"job"`
	Result *models.AnalysisResult `json:"result,omitempty"`
}

// GetJobStatus godoc
// @Summary Get resume job status
// @Description Returns the job row and, once completed, its analysis result.
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job ID"
// @Success 200 {object} JobStatusResponse
// @Failure 400 {object} WebhookResponse
// @Failure 404 {object} WebhookResponse
// @Failure 500 {object} WebhookResponse
// @Router /api/v1/jobs/{jobId} [get]
func (h *ApplicationHandler) GetJobStatus(c *fiber.Ctx) error {
	jobIDStr := c.Params("jobId")
	jobID, err := uuid.Parse(jobIDStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid job ID format")
	}

	entry := h.Logger.WithField("request_id", middleware.RequestID(c)).WithField("job_id", jobID.String())
	ctx := c.UserContext()

	job, err := h.Jobs.GetJob(ctx, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Job not found")
	}
	if err != nil {
		entry.WithError(err).Error("Error fetching job")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve job status")
	}

	resp := JobStatusResponse{Job: job}
	if job.Status == models.JobStatusCompleted {
		result, err := h.Jobs.GetResult(ctx, jobID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			entry.Warn("Completed job has no analysis result")
		case err != nil:
			entry.WithError(err).Error("Error fetching analysis result")
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve analysis result")
		default:
			resp.Result = result
		}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, resp)
}
