package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luchocam/ridelima/internal/trips"
	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/common"
	"github.com/luchocam/ridelima/pkg/middleware"
	"github.com/luchocam/ridelima/pkg/pagination"
)

// Handler exposes the operator dashboard endpoints. It reads through the
// trip and vehicle services rather than owning state of its own.
type Handler struct {
	tripSvc    *trips.Service
	vehicleSvc *vehicles.Service
}

// NewHandler creates a new admin handler
func NewHandler(tripSvc *trips.Service, vehicleSvc *vehicles.Service) *Handler {
	return &Handler{tripSvc: tripSvc, vehicleSvc: vehicleSvc}
}

// ListVehicles returns the whole fleet
func (h *Handler) ListVehicles(c *gin.Context) {
	list, err := h.vehicleSvc.ListVehicles(c.Request.Context(), c.Query("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	params := pagination.ParseParams(c)
	start, end := pagination.Slice(len(list), params.Limit, params.Offset)
	meta := pagination.BuildMeta(params.Limit, params.Offset, int64(len(list)))
	common.SuccessResponseWithMeta(c, list[start:end], meta)
}

// ListTrips returns every trip, optionally filtered by ?status=
func (h *Handler) ListTrips(c *gin.Context) {
	params := pagination.ParseParams(c)

	list, total, err := h.tripSvc.ListTrips(c.Request.Context(), c.Query("status"), params.Limit, params.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, list, meta)
}

// GetTrip returns any trip with its vehicle
func (h *Handler) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := h.tripSvc.GetTrip(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.SuccessResponse(c, trip)
}

// Stats returns the dashboard summary
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.tripSvc.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.SuccessResponse(c, stats)
}

// FleetPositions returns the live coordinate of every vehicle
func (h *Handler) FleetPositions(c *gin.Context) {
	positions, err := h.vehicleSvc.Positions(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.SuccessResponse(c, positions)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*common.AppError); ok {
		common.AppErrorResponse(c, appErr)
		return
	}
	common.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
}

// RegisterRoutes registers the admin routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	a := rg.Group("/admin")
	a.Use(middleware.RequireRole("admin"))
	{
		a.GET("/vehicles", h.ListVehicles)
		a.GET("/trips", h.ListTrips)
		a.GET("/trips/:id", h.GetTrip)
		a.GET("/stats", h.Stats)
		a.GET("/fleet/positions", h.FleetPositions)
	}
}
