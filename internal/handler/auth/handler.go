package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/auth"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/httputil"
)

// Handler exchanges an already-verified actor identity for a bearer
// token. Verification of who the actor is happens upstream (the
// enclosing identity provider); this endpoint only transports the
// result into the API's auth scheme.
type Handler struct {
	jwtSvc *auth.Service
}

func NewHandler(jwtSvc *auth.Service) *Handler {
	return &Handler{jwtSvc: jwtSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/token", h.IssueToken)
}

type TokenRequest struct {
	ActorID string `json:"actor_id" binding:"required,actorid"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument(err.Error()))
		return
	}

	token, err := h.jwtSvc.GenerateToken(model.ActorID(req.ActorID))
	if err != nil {
		httputil.RespondWithError(c, errors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, TokenResponse{Token: token})
}
