package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"plume/internal/logging"
	"plume/internal/models"
	"plume/internal/security"
)

// CurrentUserKey is where RequireUser stores the authenticated *models.User
// on the request context.
const CurrentUserKey = "current_user"

// RequireUser extracts the bearer token, validates it and resolves its
// subject to a user row. Handlers behind it read the user straight off the
// context; there is no second lookup.
func RequireUser(gdb *gorm.DB, tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		email, err := tokens.ParseSubject(tokenStr)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		var user models.User
		if err := gdb.Where("email = ?", email).First(&user).Error; err != nil {
			log.Warn().Str("email", logging.ObfuscateEmail(email)).Msg("token subject not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}
