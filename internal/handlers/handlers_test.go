package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"plume/internal/config"
	"plume/internal/db"
	"plume/internal/handlers"
	"plume/internal/router"
	"plume/internal/security"
)

func testTokenConfig(ttlMinutes int) *config.Config {
	return &config.Config{
		EnvState:                 "test",
		SecretKey:                "test-secret-key",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: ttlMinutes,
	}
}

// newTestRouter wires the real routes against an in-memory sqlite store, the
// same way the original stack tests against sqlite.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *security.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty :memory: database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	tokens := security.NewTokenService(testTokenConfig(1))
	r := gin.New()
	router.RegisterRoutes(r, gdb, tokens)
	return r, gdb, tokens
}

func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func registerUser(t *testing.T, r *gin.Engine, email, password string) {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/register", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func loginToken(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doForm(r, "/token", url.Values{"username": {email}, "password": {password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bearer", body.TokenType)
	return body.AccessToken
}

func registeredToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	registerUser(t, r, "test@email.com", "test_password")
	return loginToken(t, r, "test@email.com", "test_password")
}

func createPost(t *testing.T, r *gin.Engine, token, title, content string, published bool) handlers.PostOut {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/posts", gin.H{
		"title":     title,
		"content":   content,
		"published": published,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post handlers.PostOut
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	return post
}

func likePost(t *testing.T, r *gin.Engine, token string, postID uint) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/like/%d", postID), nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return detailOf(t, w)
}
