package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Karpenko88/carbooking/internal/schedule"
	"github.com/Karpenko88/carbooking/internal/service/availability"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	service availability.AvailabilityUseCase
}

func NewAvailabilityHandler(service availability.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/cars/:id/calendar", h.calendar)
	router.GET("/cars/:id/occupancy", h.occupancy)
	router.POST("/availability/validate", h.validate)
	router.GET("/fleet/events", h.fleetEvents)
}

type validateRequest struct {
	CarID     int64  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type validateResponse struct {
	OK          bool   `json:"ok"`
	ConflictDay string `json:"conflict_day,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func (h *AvailabilityHandler) calendar(c *gin.Context) {
	carID, from, to, ok := carWindowParams(c)
	if !ok {
		return
	}

	days, err := h.service.Calendar(c.Request.Context(), carID, from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, days)
}

func (h *AvailabilityHandler) occupancy(c *gin.Context) {
	carID, from, to, ok := carWindowParams(c)
	if !ok {
		return
	}

	intervals, err := h.service.Occupancy(c.Request.Context(), carID, from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, intervals)
}

func (h *AvailabilityHandler) validate(c *gin.Context) {
	var req validateRequest
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

	result, err := h.service.Validate(c.Request.Context(), req.CarID, start, end)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := validateResponse{OK: result.OK}
	if !result.OK {
		resp.ConflictDay = result.ConflictDay.Format(dateLayout)
		resp.Reason = string(result.Reason)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AvailabilityHandler) fleetEvents(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ids"})
		return
	}
	from, to, ok := windowParams(c)
	if !ok {
		return
	}

	events, err := h.service.FleetEvents(c.Request.Context(), ids, from, to)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

func carWindowParams(c *gin.Context) (carID int64, from, to time.Time, ok bool) {
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, time.Time{}, time.Time{}, false
	}
	from, to, ok = windowParams(c)
	return carID, from, to, ok
}

func windowParams(c *gin.Context) (from, to time.Time, ok bool) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return time.Time{}, time.Time{}, false
	}
	to, err = time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
