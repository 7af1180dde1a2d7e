package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Karpenko88/carbooking/internal/schedule"
	"github.com/Karpenko88/carbooking/internal/service/availability"
	"github.com/gin-gonic/gin"
)

// MaintenanceHandler is the administrative block editor surface.
type MaintenanceHandler struct {
	service availability.AvailabilityUseCase
}

type createBlockRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

type blockResponse struct {
	ID        int64  `json:"id"`
	CarID     int64  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func NewMaintenanceHandler(service availability.AvailabilityUseCase) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

func (h *MaintenanceHandler) Register(router *gin.RouterGroup) {
	router.POST("/cars/:id/blocks", h.create)
	router.DELETE("/blocks/:id", h.delete)
}

func (h *MaintenanceHandler) create(c *gin.Context) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req createBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	block, err := h.service.CreateBlock(c.Request.Context(), availability.CreateBlockInput{
		CarID:     carID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, blockResponse{
		ID:        block.ID,
		CarID:     block.CarID,
		StartDate: block.StartDate.Format(dateLayout),
		EndDate:   block.EndDate.Format(dateLayout),
		Reason:    block.Reason,
	})
}

func (h *MaintenanceHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.DeleteBlock(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
