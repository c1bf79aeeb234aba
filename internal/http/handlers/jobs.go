package handlers

import (
	"net/http"

	"jobboard/internal/domain/models"
	"jobboard/internal/http/middleware"
	"jobboard/internal/listquery"
	"jobboard/internal/services"

	"github.com/gin-gonic/gin"
)

func jobService(c *gin.Context) services.JobService {
	return services.JobService{RequestID: middleware.GetRequestID(c), Actor: actor(c)}
}

// GET /api/jobs
func GetJobs(c *gin.Context) {
	page, err := jobService(c).List(c.Request.Context(), listState(c, listquery.JobSchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/jobs/:id
func GetJobByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	j, err := jobService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, j)
}

// POST /api/jobs
func CreateJob(c *gin.Context) {
	var in models.JobInput
	if !bindPayload(c, &in) {
		return
	}
	j, err := jobService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, j)
}

// PUT /api/jobs/:id
func UpdateJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.JobInput
	if !bindPayload(c, &in) {
		return
	}
	j, err := jobService(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, j)
}

// DELETE /api/jobs/:id
func DeleteJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := jobService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
