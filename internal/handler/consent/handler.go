package consent

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medvault/consent-api/internal/middleware"
	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/internal/service/consent"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/httputil"
)

type Handler struct {
	service *consent.Service
}

func NewHandler(service *consent.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grants := r.Group("/grants")
	{
		grants.POST("", h.CreateGrant)
		grants.GET("", h.ListGrants)
		grants.GET("/:id", h.GetGrant)
		grants.POST("/:id/revoke", h.RevokeGrant)
	}
	r.GET("/records/:id/grants", h.ListGrantsOnRecord)
}

type CreateGrantRequest struct {
	RecordID        int64  `json:"record_id" binding:"required"`
	ProviderID      string `json:"provider_id" binding:"required,actorid"`
	DurationSeconds int64  `json:"duration_seconds" binding:"required"`
	Purpose         string `json:"purpose" binding:"required"`
}

type CreateGrantResponse struct {
	GrantID   int64     `json:"grant_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *Handler) CreateGrant(c *gin.Context) {
	var req CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument(err.Error()))
		return
	}

	caller := middleware.ActorFrom(c)
	duration := time.Duration(req.DurationSeconds) * time.Second

	id, err := h.service.Grant(c.Request.Context(), caller, req.RecordID, model.ActorID(req.ProviderID), duration, req.Purpose)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	grant, err := h.service.GetGrant(c.Request.Context(), caller, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, CreateGrantResponse{
		GrantID:   grant.ID,
		ExpiresAt: grant.ExpiresAt,
	})
}

func (h *Handler) RevokeGrant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument("grant id must be an integer"))
		return
	}

	caller := middleware.ActorFrom(c)
	if err := h.service.Revoke(c.Request.Context(), caller, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"grant_id": id, "revoked": true})
}

func (h *Handler) GetGrant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument("grant id must be an integer"))
		return
	}

	caller := middleware.ActorFrom(c)
	grant, err := h.service.GetGrant(c.Request.Context(), caller, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, grant)
}

func (h *Handler) ListGrants(c *gin.Context) {
	caller := middleware.ActorFrom(c)

	// Provider defaults to the caller; listing another provider's
	// grants is rejected by the ledger.
	provider := caller
	if v := c.Query("provider"); v != "" {
		provider = model.ActorID(v)
	}

	ids, err := h.service.ListGrantsOf(c.Request.Context(), caller, provider)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"grant_ids": ids})
}

func (h *Handler) ListGrantsOnRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument("record id must be an integer"))
		return
	}

	caller := middleware.ActorFrom(c)
	ids, err := h.service.ListGrantsOn(c.Request.Context(), caller, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"grant_ids": ids})
}
