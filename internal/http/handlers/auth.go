package handlers

import (
	"net/http"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !bindPayload(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		RespondDomainError(c, domain.Invalid("email", "email and password are required"))
		return
	}

	u, err := userService(c).Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	o := current()
	token, err := middleware.IssueToken(o.JWTSecret, u.ID, u.Role, o.TokenTTL)
	if err != nil {
		RespondDomainError(c, domain.Internal("failed to sign token", err))
		return
	}
	respondData(c, http.StatusOK, loginResponse{Token: token, User: u})
}
