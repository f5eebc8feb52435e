package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todo-app/internal/controller"
	"todo-app/internal/models"
	"todo-app/internal/repository"
	"todo-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret = "router-test-secret"
	origin = "https://d111111abcdef8.cloudfront.net"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	svc := service.New(repository.NewMemory())
	return Router(controller.NewTodoHandler(svc), Options{JWTSecret: secret, AllowedOrigin: origin})
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScenario(t *testing.T) {
	r := newTestRouter()
	u1 := bearer(t, "u1")

	w := do(t, r, http.MethodPost, "/todos", u1, `{"title":"buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	var created models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.Equal(t, "u1", created.UserID)
	assert.NotEmpty(t, created.TodoID)
	assert.NotEmpty(t, created.CreatedAt)

	w = do(t, r, http.MethodPut, "/todos/"+created.TodoID, u1, `{"completed":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "buy milk", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	w = do(t, r, http.MethodDelete, "/todos/"+created.TodoID, u1, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Todo deleted"}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/todos", u1, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUsersAreIsolated(t *testing.T) {
	r := newTestRouter()
	a, b := bearer(t, "alice"), bearer(t, "bob")

	w := do(t, r, http.MethodPost, "/todos", a, `{"title":"alice's"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(t, r, http.MethodGet, "/todos", b, "")
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, r, http.MethodPut, "/todos/"+created.TodoID, b, `{"title":"bob was here"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/todos", a, "")
	var list []models.Todo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "alice's", list[0].Title)
}

func TestRequiresToken(t *testing.T) {
	r := newTestRouter()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodPut, "/todos/x"},
		{http.MethodDelete, "/todos/x"},
	} {
		w := do(t, r, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPreflight(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodOptions, "/todos", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter()
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/ready", "", "").Code)
}
