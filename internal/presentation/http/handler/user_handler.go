package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
)

// UserHandler handles account management for admins
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing users with pagination
// @Summary List Users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search query"
// @Success 200 {object} response.APIResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter request.UserFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), pageParams(filter.Page, filter.PerPage), filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Users retrieved successfully", result)
}

// Get handles getting a single user by ID
// @Summary Get User
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "id", "user ID")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", gin.H{"user": userPayload(user)})
}

// UpdateRole handles switching a user between admin and cashier
// @Summary Update User Role
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body request.UpdateRoleRequest true "Role"
// @Success 200 {object} response.APIResponse
// @Router /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id", "user ID")
	if !ok {
		return
	}

	var req request.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUserRole(c.Request.Context(), &service.UpdateUserRoleInput{
		ActorID: actorID,
		UserID:  userID,
		Role:    req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User role updated successfully", gin.H{"user": userPayload(user)})
}

// Delete handles deleting a user
// @Summary Delete User
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id", "user ID")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), actorID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User deleted successfully", nil)
}
