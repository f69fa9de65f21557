package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"plume/internal/logging"
	"plume/internal/models"
	"plume/internal/security"
)

type AuthHandler struct {
	db     *gorm.DB
	tokens *security.TokenService
}

func NewAuthHandler(gdb *gorm.DB, tokens *security.TokenService) *AuthHandler {
	return &AuthHandler{db: gdb, tokens: tokens}
}

type UserIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4"`
}

// Login comes in form-encoded, OAuth2 password-flow style.
type LoginForm struct {
	Username string `form:"username" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// Register creates a new user. POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var in UserIn
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, bindErrorMessage(err))
		return
	}

	log.Info().Str("email", logging.ObfuscateEmail(in.Email)).Msg("registering a user")

	var existing models.User
	if err := h.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		detail(c, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Could not create user")
		return
	}

	user := models.User{Email: in.Email, Password: hash}
	if err := h.db.Create(&user).Error; err != nil {
		// Unique index on email catches the register/register race.
		detail(c, http.StatusBadRequest, "User already exists")
		return
	}

	detail(c, http.StatusCreated, "User created")
}

// Token authenticates a user and hands out an access token. POST /token
func (h *AuthHandler) Token(c *gin.Context) {
	var in LoginForm
	if err := c.ShouldBind(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, bindErrorMessage(err))
		return
	}

	log.Info().Str("email", logging.ObfuscateEmail(in.Username)).Msg("logging in a user")

	// Unknown email and wrong password answer identically so responses leak
	// nothing about which accounts exist.
	var user models.User
	err := h.db.Where("email = ?", in.Username).First(&user).Error
	if err != nil || !security.CheckPasswordHash(in.Password, user.Password) {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	token, err := h.tokens.CreateAccessToken(user.Email)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Could not create access token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// bindErrorMessage maps binding failures to the stable strings clients match
// on. Only the email-format case has a dedicated message.
func bindErrorMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if fe.Tag() == "email" {
				return "Invalid email format"
			}
		}
	}
	return "Invalid request payload"
}
