package trips

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/common"
	"github.com/luchocam/ridelima/pkg/middleware"
)

// DriverHandler handles the driver-facing trip endpoints
type DriverHandler struct {
	service *Service
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(service *Service) *DriverHandler {
	return &DriverHandler{service: service}
}

// driverCategory reads the vehicle category from the session claims
func driverCategory(c *gin.Context) (vehicles.Category, bool) {
	category := middleware.GetVehicleCategory(c)
	if !vehicles.ValidCategory(category) {
		common.ErrorResponse(c, http.StatusForbidden, "driver session has no vehicle category")
		return "", false
	}
	return vehicles.Category(category), true
}

// ListRequests returns the pending trips matching the driver's category
func (h *DriverHandler) ListRequests(c *gin.Context) {
	category, ok := driverCategory(c)
	if !ok {
		return
	}

	requests, err := h.service.DriverRequests(c.Request.Context(), category)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, requests)
}

// AcceptTrip accepts a pending trip, attaching the driver to it
func (h *DriverHandler) AcceptTrip(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	category, ok := driverCategory(c)
	if !ok {
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := h.service.AcceptTrip(c.Request.Context(), driverID, category, tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

// RejectTrip declines a pending trip
func (h *DriverHandler) RejectTrip(c *gin.Context) {
	h.lifecycle(c, h.service.RejectTrip)
}

// StartTrip starts a confirmed trip
func (h *DriverHandler) StartTrip(c *gin.Context) {
	h.lifecycle(c, h.service.StartTrip)
}

// CompleteTrip finishes an in-progress trip
func (h *DriverHandler) CompleteTrip(c *gin.Context) {
	h.lifecycle(c, h.service.CompleteTrip)
}

// ValidateCode checks the rider's confirmation code at pickup
func (h *DriverHandler) ValidateCode(c *gin.Context) {
	category, ok := driverCategory(c)
	if !ok {
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.service.ValidateCode(c.Request.Context(), category, tripID, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

// ListTrips returns the trips the driver has accepted
func (h *DriverHandler) ListTrips(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	list, err := h.service.DriverTrips(c.Request.Context(), driverID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, list)
}

// RateRider records the driver's rating of the rider
func (h *DriverHandler) RateRider(c *gin.Context) {
	category, ok := driverCategory(c)
	if !ok {
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

	trip, err := h.service.RateRider(c.Request.Context(), category, tripID, req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

// lifecycle factors the shared shape of the accept/reject/start/complete handlers
func (h *DriverHandler) lifecycle(c *gin.Context, op func(ctx context.Context, category vehicles.Category, tripID uuid.UUID) (*Trip, error)) {
	category, ok := driverCategory(c)
	if !ok {
		return
	}

	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := op(c.Request.Context(), category, tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	common.SuccessResponse(c, trip)
}

func (h *DriverHandler) respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

// RegisterRoutes registers the driver trip routes
func (h *DriverHandler) RegisterRoutes(rg *gin.RouterGroup) {
	d := rg.Group("/driver")
	d.Use(middleware.RequireRole("driver"))
	{
		d.GET("/requests", h.ListRequests)
		d.GET("/trips", h.ListTrips)
		d.POST("/trips/:id/accept", h.AcceptTrip)
		d.POST("/trips/:id/reject", h.RejectTrip)
		d.POST("/trips/:id/validate-code", h.ValidateCode)
		d.POST("/trips/:id/start", h.StartTrip)
		d.POST("/trips/:id/complete", h.CompleteTrip)
		d.POST("/trips/:id/rate", h.RateRider)
	}
}
