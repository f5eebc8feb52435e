package middleware

import (
	"net/http"
	"strings"
	"time"

	apperrors "todo-app/pkg/errors"
	"todo-app/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	identityKey     = "user"
	requestIDHeader = "X-Request-ID"
)

// Identity returns the validated subject set by AuthMiddleware, or "".
func Identity(c *gin.Context) string {
	return c.GetString(identityKey)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Body{Code: apperrors.EUnauthorized, Message: "Unauthorized"})
}

// AuthMiddleware verifies an HS256 bearer token and stores its subject as the
// caller identity.
func AuthMiddleware(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Body{Code: apperrors.EInternal, Message: "Server misconfiguration"})
			return
		}
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if auth == "" || !strings.HasPrefix(auth, prefix) {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			unauthorized(c)
			return
		}
		tokenStr := strings.TrimSpace(auth[len(prefix):])
		token, err := parser.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Debug(ctx, "JWT parse failed", "error", err)
			unauthorized(c)
			return
		}
		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			logger.Debug(ctx, "JWT has no subject")
			unauthorized(c)
			return
		}
		c.Set(identityKey, sub)
		c.Next()
	}
}

// CORS decorates every response with fixed cross-origin headers. The
// decorator's values replace any the handler set; status and body are
// untouched. OPTIONS preflight requests are answered with 204.
// Browsers reject credentials with a wildcard origin, so the credentials
// header is only sent for an explicit origin.
func CORS(origin string) gin.HandlerFunc {
	headers := map[string]string{
		"Access-Control-Allow-Origin": origin,
		"Content-Type":                "application/json",
	}
	if origin != "*" {
		headers["Access-Control-Allow-Credentials"] = "true"
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Amz-Date, X-Api-Key, X-Amz-Security-Token")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Writer = &headerWriter{ResponseWriter: c.Writer, headers: headers}
		c.Next()
	}
}

// headerWriter applies its headers right before the response header is sent.
type headerWriter struct {
	gin.ResponseWriter
	headers map[string]string
}

func (w *headerWriter) apply() {
	if w.Written() {
		return
	}
	h := w.Header()
	for k, v := range w.headers {
		h.Set(k, v)
	}
}

func (w *headerWriter) WriteHeader(code int) {
	w.apply()
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) WriteHeaderNow() {
	w.apply()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerWriter) Write(b []byte) (int, error) {
	w.apply()
	return w.ResponseWriter.Write(b)
}

func (w *headerWriter) WriteString(s string) (int, error) {
	w.apply()
	return w.ResponseWriter.WriteString(s)
}

// RequestLogger tags the request context with a request ID and logs one line
// per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)

		c.Next()

		logger.Info(ctx, "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"user_id", Identity(c),
		)
	}
}
