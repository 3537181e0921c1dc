package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type tokenIssuer interface {
	Authenticate(req dto.TokenRequest) (*dto.TokenResponse, error)
}

// AuthHandler exchanges API client credentials for bearer tokens.
type AuthHandler struct {
	tokens tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(tokens tokenIssuer) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Token godoc
// @Summary Issue an access token
// @Description Authenticate an API client; advisors may act for a student by passing subject
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.TokenRequest true "Client credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid token payload"))
		return
	}
	res, err := h.tokens.Authenticate(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
