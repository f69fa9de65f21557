package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"plume/internal/models"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(gdb *gorm.DB) *PostHandler {
	return &PostHandler{db: gdb}
}

type PostIn struct {
	Title     string `json:"title" binding:"required,max=100"`
	Content   string `json:"content" binding:"required,max=1000"`
	Published *bool  `json:"published"`
}

// PostOut is a post plus its computed like count. Likes are never stored,
// they are counted at read time.
type PostOut struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	Likes     int64     `json:"likes"`
}

// postsWithLikes is the shared SELECT: posts left-joined against likes,
// grouped per post, with the count exposed as "likes".
func postsWithLikes(gdb *gorm.DB) *gorm.DB {
	return gdb.Table("posts").
		Select("posts.id, posts.title, posts.content, posts.published, posts.created_at, posts.user_id, count(likes.post_id) AS likes").
		Joins("LEFT JOIN likes ON likes.post_id = posts.id").
		Group("posts.id")
}

func queryPostsWithLikes(gdb *gorm.DB, limit, skip int, search, sorting string) ([]PostOut, error) {
	query := postsWithLikes(gdb)
	if search != "" {
		query = query.Where("posts.title LIKE ?", "%"+search+"%")
	}
	if sorting == "most_likes" {
		query = query.Order("likes DESC, posts.id")
	} else {
		query = query.Order("posts.id")
	}

	posts := []PostOut{}
	err := query.Offset(skip).Limit(limit).Scan(&posts).Error
	return posts, err
}

func (h *PostHandler) findPostOut(id uint) (*PostOut, error) {
	var post PostOut
	err := postsWithLikes(h.db).Where("posts.id = ?", id).Scan(&post).Error
	if err != nil {
		return nil, err
	}
	if post.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &post, nil
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("post_id"))
	if err != nil || id < 0 {
		return 0, false
	}
	return uint(id), true
}

// List returns posts with their like counts. GET /posts
// Supports limit/skip pagination, substring search on title, and
// sorting=most_likes.
func (h *PostHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		detail(c, http.StatusUnprocessableEntity, "Invalid limit value")
		return
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		detail(c, http.StatusUnprocessableEntity, "Invalid skip value")
		return
	}
	sorting := c.Query("sorting")
	if sorting != "" && sorting != "most_likes" {
		detail(c, http.StatusUnprocessableEntity, "Invalid sorting value")
		return
	}

	log.Debug().Int("limit", limit).Int("skip", skip).Msg("getting all posts")

	posts, err := queryPostsWithLikes(h.db, limit, skip, c.Query("search"), sorting)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Could not fetch posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Get returns a single post with its like count. GET /posts/:post_id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.findPostOut(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			detail(c, http.StatusNotFound, "Post not found")
			return
		}
		detail(c, http.StatusInternalServerError, "Could not fetch post")
		return
	}
	c.JSON(http.StatusOK, post)
}

// Create stores a new post owned by the caller. POST /posts
func (h *PostHandler) Create(c *gin.Context) {
	var in PostIn
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}

	user := CurrentUser(c)
	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Published: published,
		UserID:    user.ID,
	}
	if err := h.db.Create(&post).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Could not create post")
		return
	}

	log.Info().Uint("post_id", post.ID).Uint("user_id", user.ID).Msg("created a post")

	out, err := h.findPostOut(post.ID)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Could not fetch post")
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Update rewrites a post's mutable fields. PUT /posts/:post_id
// Only the owner may do this; the existence check runs first so a missing
// post is always 404, never 403.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}

	var in PostIn
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, "Invalid request payload")
		return
	}

	var post models.Post
	if err := h.db.First(&post, id).Error; err != nil {
		detail(c, http.StatusNotFound, "Post not found")
		return
	}

	user := CurrentUser(c)
	if post.UserID != user.ID {
		detail(c, http.StatusForbidden, "Not authorized to perform requested action")
		return
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}
	updates := map[string]interface{}{
		"title":     in.Title,
		"content":   in.Content,
		"published": published,
	}
	if err := h.db.Model(&post).Updates(updates).Error; err != nil {
		detail(c, http.StatusInternalServerError, "Could not update post")
		return
	}

	out, err := h.findPostOut(id)
	if err != nil {
		detail(c, http.StatusInternalServerError, "Could not fetch post")
		return
	}
	// 201 on update is a quirk the API's clients already depend on.
	c.JSON(http.StatusCreated, out)
}

// Delete removes a post and its likes. DELETE /posts/:post_id
func (h *PostHandler) Delete(c *gin.Context) {
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
	if post.UserID != user.ID {
		detail(c, http.StatusForbidden, "Not authorized to perform requested action")
		return
	}

	// Likes go in the same transaction so no orphan rows survive on stores
	// where the FK cascade is not enforced.
	tx := h.db.Begin()
	if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		detail(c, http.StatusInternalServerError, "Could not delete post")
		return
	}
	if err := tx.Delete(&post).Error; err != nil {
		tx.Rollback()
		detail(c, http.StatusInternalServerError, "Could not delete post")
		return
	}
	tx.Commit()

	log.Info().Uint("post_id", id).Uint("user_id", user.ID).Msg("deleted a post")
	c.Status(http.StatusNoContent)
}
