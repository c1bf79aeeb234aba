package handlers

import (
	"net/http"

	"jobboard/internal/domain/models"
	"jobboard/internal/http/middleware"
	"jobboard/internal/listquery"
	"jobboard/internal/services"

	"github.com/gin-gonic/gin"
)

const logoField = "logo"

func employerService(c *gin.Context) services.EmployerService {
	return services.EmployerService{Files: current().Files, RequestID: middleware.GetRequestID(c)}
}

// GET /api/employers
func GetEmployers(c *gin.Context) {
	page, err := employerService(c).List(c.Request.Context(), listState(c, listquery.EmployerSchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/employers/:id
func GetEmployerByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := employerService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, e)
}

// POST /api/employers (multipart: data + optional logo)
func CreateEmployer(c *gin.Context) {
	var in models.EmployerInput
	if !bindPayload(c, &in) {
		return
	}
	logo, closeLogo, err := formFile(c, logoField)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	defer closeLogo()

	e, err := employerService(c).Create(c.Request.Context(), in, logo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, e)
}

// PUT /api/employers/:id
func UpdateEmployer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.EmployerInput
	if !bindPayload(c, &in) {
		return
	}
	logo, closeLogo, err := formFile(c, logoField)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	defer closeLogo()

	e, err := employerService(c).Update(c.Request.Context(), id, in, logo)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, e)
}

// DELETE /api/employers/:id
func DeleteEmployer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := employerService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
