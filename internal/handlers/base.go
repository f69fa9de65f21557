package handlers

import (
	"github.com/gin-gonic/gin"

	"plume/internal/middleware"
	"plume/internal/models"
)

// detail writes the {"detail": ...} payload every response in this API uses
// for messages, success markers and errors alike.
func detail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"detail": message})
}

// CurrentUser returns the user the auth middleware resolved for this request.
// Routes registered behind RequireUser always have one.
func CurrentUser(c *gin.Context) *models.User {
	user, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return nil
	}
	return user.(*models.User)
}
