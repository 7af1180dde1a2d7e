package api

import (
	"net/http"
	"strconv"

	"github.com/Karpenko88/carbooking/internal/service/cars"
	"github.com/gin-gonic/gin"
)

type CarHandler struct {
	service cars.CarUseCase
}

func NewCarHandler(service cars.CarUseCase) *CarHandler {
	return &CarHandler{service: service}
}

func (h *CarHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *CarHandler) list(c *gin.Context) {
	fleet, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, fleet)
}

func (h *CarHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	car, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, car)
}
