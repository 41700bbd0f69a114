package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/autotrackr/autotrackr/internal/apperr"
	"github.com/autotrackr/autotrackr/internal/auth"
	"github.com/autotrackr/autotrackr/internal/dtos"
	"github.com/autotrackr/autotrackr/internal/services"
)

type JobHandler struct {
	Jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

// CreateJob is the POST /jobs/ endpoint.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	owner := auth.CurrentUser(c)
	job, err := h.Jobs.Create(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// ListJobs returns all jobs owned by the caller.
func (h *JobHandler) ListJobs(c *gin.Context) {
	owner := auth.CurrentUser(c)
	jobs, err := h.Jobs.List(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	owner := auth.CurrentUser(c)
	job, err := h.Jobs.Get(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	var req dtos.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	owner := auth.CurrentUser(c)
	job, err := h.Jobs.Update(c.Request.Context(), owner, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	owner := auth.CurrentUser(c)
	if err := h.Jobs.Delete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// jobID parses the :id path param. A malformed id can't reference any job,
// so it surfaces as not found rather than leaking validation detail.
func jobID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.NotFound("job not found"))
		return uuid.Nil, false
	}
	return id, true
}
