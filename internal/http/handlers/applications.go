package handlers

import (
	"net/http"

	"jobboard/internal/domain/models"
	"jobboard/internal/http/middleware"
	"jobboard/internal/listquery"
	"jobboard/internal/services"

	"github.com/gin-gonic/gin"
)

const cvField = "cv"

func applicationService(c *gin.Context) services.ApplicationService {
	return services.ApplicationService{Files: current().Files, RequestID: middleware.GetRequestID(c), Actor: actor(c)}
}

// GET /api/applications
func GetApplications(c *gin.Context) {
	page, err := applicationService(c).List(c.Request.Context(), listState(c, listquery.ApplicationSchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/applications/:id
func GetApplicationByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := applicationService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, a)
}

// GET /api/applications/check?jobId=&userId=
// userId defaults to the caller and is ignored for seekers.
func CheckPriorApplication(c *gin.Context) {
	jobID, ok := queryID(c, "jobId")
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	if c.Query("userId") != "" || userID == 0 {
		if userID, ok = queryID(c, "userId"); !ok {
			return
		}
	}
	prior, err := applicationService(c).Prior(c.Request.Context(), jobID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, prior)
}

// POST /api/applications (multipart: data + optional cv)
func CreateApplication(c *gin.Context) {
	var in models.ApplicationInput
	if !bindPayload(c, &in) {
		return
	}
	cv, closeCV, err := formFile(c, cvField)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	defer closeCV()

	a, err := applicationService(c).Create(c.Request.Context(), in, cv)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, a)
}

// PUT /api/applications/:id
func UpdateApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.ApplicationInput
	if !bindPayload(c, &in) {
		return
	}
	cv, closeCV, err := formFile(c, cvField)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	defer closeCV()

	a, err := applicationService(c).Update(c.Request.Context(), id, in, cv)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, a)
}

// DELETE /api/applications/:id
func DeleteApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := applicationService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/applications/:id/receipt
func GetApplicationReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := applicationService(c).Get(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := svc.GenerateReceipt(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
