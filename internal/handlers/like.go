package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plume/internal/models"
)

type LikeHandler struct {
	db *gorm.DB
}

func NewLikeHandler(gdb *gorm.DB) *LikeHandler {
	return &LikeHandler{db: gdb}
}

// Toggle flips the like state for (caller, post). POST /like/:post_id
// Two calls in a row alternate; it is a toggle, not an idempotent create.
func (h *LikeHandler) Toggle(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}

	var post models.Post
	if err := h.db.First(&post, id).Error; err != nil {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}

	user := CurrentUser(c)
	log.Info().Uint("post_id", id).Uint("user_id", user.ID).Msg("toggling a like")

	// Delete-if-present, else insert-if-absent. Both statements are atomic
	// and the composite primary key absorbs a concurrent double toggle, so
	// there is no read-then-write window.
	res := h.db.Where("user_id = ? AND post_id = ?", user.ID, id).Delete(&models.Like{})
	if res.Error != nil {
		detail(c, http.StatusInternalServerError, "Could not toggle like")
		return
	}
	if res.RowsAffected > 0 {
		detail(c, http.StatusCreated, "Like removed successfully")
		return
	}

	like := models.Like{UserID: user.ID, PostID: id}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Could not toggle like")
		return
	}
	detail(c, http.StatusCreated, "Like added successfully")
}
