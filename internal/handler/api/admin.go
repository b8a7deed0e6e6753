package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "roomsense/internal/handler/dto/request"
	resdto "roomsense/internal/handler/dto/response"
	"roomsense/internal/handler/middleware"
	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	userCommands commands.UserCommands
	banCommands  commands.BanCommands
	userQueries  queries.UserQueries
}

func NewAdminHandler(
	userCommands commands.UserCommands,
	banCommands commands.BanCommands,
	userQueries queries.UserQueries,
) *AdminHandler {
	return &AdminHandler{
		userCommands: userCommands,
		banCommands:  banCommands,
		userQueries:  userQueries,
	}
}

// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateUserRequest true "User attributes"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req reqdto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.userCommands.CreateUser(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		case errors.Is(err, commands.ErrInvalidUser):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid user attributes"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary List users
// @Description All users with their ban status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.AdminUserResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	views, err := h.userQueries.ListWithBanStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromAdminUserViews(views))
}

// @Summary Ban user
// @Description Block a user from booking and cancel their future reservations
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body reqdto.BanUserRequest false "Ban duration"
// @Success 200 {object} resdto.BanResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/bans/{id} [post]
func (h *AdminHandler) BanUser(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req reqdto.BanUserRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	var duration *time.Duration
	if req.DurationHours > 0 {
		d := time.Duration(req.DurationHours) * time.Hour
		duration = &d
	}

	result, err := h.banCommands.Ban(c.Request.Context(), userID, adminID, duration)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBanResult(result))
}

// @Summary Unban user
// @Description Lift a ban; succeeds even when no ban exists
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/bans/{id} [delete]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.banCommands.Unban(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
