package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/middleware"
	"github.com/sangkips/phoneshop-pos/pkg/pagination"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, _ := c.Get(middleware.ContextUserRoles)
	list, _ := roles.([]string)
	return list
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == enum.RoleAdmin {
			return true
		}
	}
	return false
}

// requireUser writes a 401 and returns false when no user is signed in
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// pathID parses the :id path parameter, writing a 400 on failure
func pathID(c *gin.Context, param, field string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(field, c.Param(param))
	if err != nil {
		response.Error(c, err)
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// bindJSON binds the body, writing a 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}
