package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plume/internal/handlers"
	"plume/internal/middleware"
	"plume/internal/security"
)

func RegisterRoutes(r *gin.Engine, gdb *gorm.DB, tokens *security.TokenService) {
	// Handlers
	authHandler := handlers.NewAuthHandler(gdb, tokens)
	postHandler := handlers.NewPostHandler(gdb)
	likeHandler := handlers.NewLikeHandler(gdb)

	// Public Routes
	r.POST("/register", authHandler.Register)
	r.POST("/token", authHandler.Token)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.RequireUser(gdb, tokens))
	{
		authorized.GET("/posts", postHandler.List)
		authorized.GET("/posts/:post_id", postHandler.Get)
		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/:post_id", postHandler.Update)
		authorized.DELETE("/posts/:post_id", postHandler.Delete)

		authorized.POST("/like/:post_id", likeHandler.Toggle)
	}
}
