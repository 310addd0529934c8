package riskanalysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mineaction-backend/internal/documents"
	"mineaction-backend/internal/shared/server/middleware"
	"mineaction-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the risk analysis service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches risk analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/risk-analysis", h.assess)
}

type assessRequest struct {
	Area string `json:"area"`
}

func (h *Handler) assess(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	assessment, err := h.Svc.Assess(c.Request.Context(), userID, req.Area)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "area is required", nil)
		case errors.Is(err, ErrInsufficientData):
			respond.Error(c, http.StatusNotFound, "insufficient_data", "upload hazard surveys or incident logs first", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze risk", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, assessment)
}
