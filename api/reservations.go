package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/Karpenko88/carbooking/internal/repository"
	"github.com/Karpenko88/carbooking/internal/schedule"
	"github.com/Karpenko88/carbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service booking.BookingUseCase
}

type createReservationRequest struct {
	CarID        int64  `json:"car_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
}

type reservationResponse struct {
	Token        string `json:"token"`
	Status       string `json:"status"`
	CarID        int64  `json:"car_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	ExpiresAt    string `json:"expires_at"`
}

func NewReservationHandler(service booking.BookingUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PUT("/:token", h.confirm)
	router.DELETE("/:token", h.cancel)
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
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

	reservation, err := h.service.CreateReservation(c.Request.Context(), booking.CreateReservationInput{
		CarID:        req.CarID,
		StartDate:    start,
		EndDate:      end,
		CustomerName: req.CustomerName,
		Email:        req.Email,
	})
	if err != nil {
		var conflict *booking.ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{
				"error":        "dates unavailable",
				"conflict_day": conflict.Day.Format(dateLayout),
				"reason":       string(conflict.Reason),
			})
		case errors.Is(err, repository.ErrDatesTaken):
			// another client took the dates after validation passed
			c.JSON(http.StatusConflict, gin.H{"error": "dates just became unavailable, please pick different dates"})
		case errors.Is(err, schedule.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) confirm(c *gin.Context) {
	token := c.Param("token")
	reservation, err := h.service.ConfirmReservation(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	token := c.Param("token")
	reservation, err := h.service.CancelReservation(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(reservation))
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		Token:        r.Token,
		Status:       string(r.Status),
		CarID:        r.CarID,
		StartDate:    r.StartDate.Format(dateLayout),
		EndDate:      r.EndDate.Format(dateLayout),
		CustomerName: r.CustomerName,
		Email:        r.Email,
		ExpiresAt:    r.ExpiresAt.Format(time.RFC3339),
	}
}
