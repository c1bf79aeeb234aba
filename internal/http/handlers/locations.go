package handlers

import (
	"net/http"

	"jobboard/internal/domain/models"
	"jobboard/internal/http/middleware"
	"jobboard/internal/listquery"
	"jobboard/internal/services"

	"github.com/gin-gonic/gin"
)

func locationService(c *gin.Context) services.LocationService {
	return services.LocationService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/provinces
func GetProvinces(c *gin.Context) {
	page, err := locationService(c).Provinces(c.Request.Context(), listState(c, listquery.ProvinceSchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/districts?provinceId=
func GetDistricts(c *gin.Context) {
	page, err := locationService(c).Districts(c.Request.Context(), listState(c, listquery.DistrictSchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/industries
func GetIndustries(c *gin.Context) {
	page, err := locationService(c).Industries(c.Request.Context(), listState(c, listquery.IndustrySchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/industries/:id
func GetIndustryByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	i, err := locationService(c).Industry(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, i)
}

// POST /api/industries
func CreateIndustry(c *gin.Context) {
	var in models.IndustryInput
	if !bindPayload(c, &in) {
		return
	}
	i, err := locationService(c).CreateIndustry(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, i)
}

// PUT /api/industries/:id
func UpdateIndustry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.IndustryInput
	if !bindPayload(c, &in) {
		return
	}
	i, err := locationService(c).UpdateIndustry(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, i)
}

// DELETE /api/industries/:id
func DeleteIndustry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := locationService(c).DeleteIndustry(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
