package api

import (
	"errors"
	"net/http"

	reqdto "roomsense/internal/handler/dto/request"
	resdto "roomsense/internal/handler/dto/response"
	"roomsense/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type SensorHandler struct {
	sensorCommands commands.SensorCommands
}

func NewSensorHandler(sensorCommands commands.SensorCommands) *SensorHandler {
	return &SensorHandler{sensorCommands: sensorCommands}
}

// @Summary Record sensor reading
// @Description Ingest an environmental reading pushed by a room sensor
// @Tags sensors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RecordReadingRequest true "Reading"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /sensors/readings [post]
func (h *SensorHandler) RecordReading(c *gin.Context) {
	var req reqdto.RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.sensorCommands.RecordReading(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, commands.ErrInvalidReading):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Reading must carry at least one measurement"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}
