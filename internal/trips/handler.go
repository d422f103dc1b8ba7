package trips

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luchocam/ridelima/pkg/common"
	"github.com/luchocam/ridelima/pkg/middleware"
	"github.com/luchocam/ridelima/pkg/pagination"
)

// Handler handles the rider-facing trip endpoints
type Handler struct {
	service *Service
}

// NewHandler creates a new trip handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateTrip requests a ride
func (h *Handler) CreateTrip(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), riderID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.CreatedResponse(c, trip)
}

// ListTrips returns the rider's trips, newest first
func (h *Handler) ListTrips(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	list, err := h.service.ListRiderTrips(c.Request.Context(), riderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	params := pagination.ParseParams(c)
	start, end := pagination.Slice(len(list), params.Limit, params.Offset)
	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(list)))
	common.SuccessResponseWithMeta(c, list[start:end], meta)
}

// GetTrip returns one of the rider's trips
func (h *Handler) GetTrip(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := h.service.GetRiderTrip(c.Request.Context(), riderID, tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

// CancelTrip cancels one of the rider's trips
func (h *Handler) CancelTrip(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := h.service.CancelTrip(c.Request.Context(), riderID, tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

// RateTrip records the rider's rating for a completed trip
func (h *Handler) RateTrip(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	var req RateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.RateTrip(c.Request.Context(), riderID, tripID, req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

// RegisterRoutes registers the rider trip routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	t := rg.Group("/trips")
	t.Use(middleware.RequireRole("rider"))
	{
		t.POST("", h.CreateTrip)
		t.GET("", h.ListTrips)
		t.GET("/:id", h.GetTrip)
		t.POST("/:id/cancel", h.CancelTrip)
		t.POST("/:id/rate", h.RateTrip)
	}
}
