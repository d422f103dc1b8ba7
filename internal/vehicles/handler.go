package vehicles

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luchocam/ridelima/pkg/common"
)

// Handler handles HTTP requests for vehicles
type Handler struct {
	service *Service
}

// NewHandler creates a new vehicle handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListVehicles returns the bookable vehicles, filtered by ?type= when present.
// Vehicles held by an active trip are left out; admins see the full fleet
// through their own endpoint.
func (h *Handler) ListVehicles(c *gin.Context) {
	category := c.Query("type")

	list, err := h.service.ListAvailable(c.Request.Context(), category)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list vehicles")
		return
	}

	common.SuccessResponse(c, list)
}

// GetVehicle returns a vehicle by ID
func (h *Handler) GetVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid vehicle ID")
		return
	}

	vehicle, err := h.service.GetVehicle(c.Request.Context(), id)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get vehicle")
		return
	}

	common.SuccessResponse(c, vehicle)
}

// RegisterRoutes registers vehicle routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/vehicles")
	{
		v.GET("", h.ListVehicles)
		v.GET("/:id", h.GetVehicle)
	}
}
