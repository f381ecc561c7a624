package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// userHandler handles HTTP requests for operator accounts.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes for account administration.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.PUT("/:username", h.updateUser)
		users.DELETE("/:username", h.deleteUser)
	}
	rg.GET("/me", h.me)
}

// me godoc
// @Summary Current viewer identity
// @Tags users
// @Produce json
// @Success 200 {object} domain.Viewer
// @Security BearerAuth
// @Router /me [get]
func (h *userHandler) me(c *gin.Context) {
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewer)
}

// listUsers godoc
// @Summary List operator accounts
// @Description Admin only. Password hashes are stripped.
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "list users", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}

// createUser godoc
// @Summary Register a new operator account
// @Description Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// updateUser godoc
// @Summary Edit an operator account
// @Description Admin only. Nil fields are left untouched.
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param user body dto.UpdateUserRequest true "Edits"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), viewer, c.Param("username"), req)
	if err != nil {
		respondServiceError(c, logger, "update user", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deleteUser godoc
// @Summary Remove an operator account
// @Description Admin only. Admins cannot delete their own account.
// @Tags users
// @Param username path string true "Username"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{username} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), viewer, c.Param("username")); err != nil {
		respondServiceError(c, logger, "delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}
