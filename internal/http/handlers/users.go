package handlers

import (
	"net/http"

	"jobboard/internal/domain/models"
	"jobboard/internal/http/middleware"
	"jobboard/internal/listquery"
	"jobboard/internal/services"

	"github.com/gin-gonic/gin"
)

func userService(c *gin.Context) services.UserService {
	return services.UserService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/users
func GetUsers(c *gin.Context) {
	page, err := userService(c).List(c.Request.Context(), listState(c, listquery.UserSchema))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, page)
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := userService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var in models.UserInput
	if !bindPayload(c, &in) {
		return
	}
	u, err := userService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, u)
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in models.UserInput
	if !bindPayload(c, &in) {
		return
	}
	u, err := userService(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, u)
}

// DELETE /api/users/:id
func DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := userService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
