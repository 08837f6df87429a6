package record

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medvault/consent-api/internal/middleware"
	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/internal/service/record"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/httputil"
)

type Handler struct {
	service *record.Service
}

func NewHandler(service *record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/records")
	{
		records.POST("", h.CreateRecord)
		records.GET("", h.ListRecords)
		records.GET("/:id", h.ViewRecord)
	}
	r.GET("/stats", h.Stats)
}

type CreateRecordRequest struct {
	ContentRef string `json:"content_ref" binding:"required"`
	RecordType string `json:"record_type" binding:"required"`
}

type CreateRecordResponse struct {
	RecordID int64 `json:"record_id"`
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument(err.Error()))
		return
	}

	caller := middleware.ActorFrom(c)
	id, err := h.service.CreateRecord(c.Request.Context(), caller, req.ContentRef, req.RecordType)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, CreateRecordResponse{RecordID: id})
}

func (h *Handler) ViewRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httputil.RespondWithError(c, errors.InvalidArgument("record id must be an integer"))
		return
	}

	caller := middleware.ActorFrom(c)
	rec, err := h.service.ViewRecord(c.Request.Context(), caller, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, rec)
}

func (h *Handler) ListRecords(c *gin.Context) {
	caller := middleware.ActorFrom(c)

	// Owner defaults to the caller; listing someone else's records is
	// rejected by the ledger.
	owner := caller
	if v := c.Query("owner"); v != "" {
		owner = model.ActorID(v)
	}

	ids, err := h.service.ListRecords(c.Request.Context(), caller, owner)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"record_ids": ids})
}

func (h *Handler) Stats(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, h.service.Stats(c.Request.Context()))
}
