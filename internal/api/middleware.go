package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitnessallies/backend/internal/config"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/service"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextTokenKey     = "authToken"
	ContextRequestIDKey = "requestID"

	requestIDHeader = "X-Request-ID"
)

// AuthMiddleware verifies the bearer token and stores the owner id and the
// raw token in the context.
func AuthMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, msgMissingToken)
			return
		}

		ownerID, err := verifier.VerifyToken(token)
		if err != nil {
			if errors.Is(err, service.ErrMissingOwner) {
				abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
			} else {
				abortWithError(c, http.StatusUnauthorized, msgInvalidToken)
			}
			return
		}
		if _, err := primitive.ObjectIDFromHex(ownerID); err != nil {
			abortWithError(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		c.Set(ContextUserIDKey, ownerID)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// bearerToken accepts "Bearer <token>" and, for older clients, a bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1]
	case len(parts) == 1 && !strings.EqualFold(parts[0], "bearer"):
		return parts[0]
	default:
		return ""
	}
}

// RequestLogger tags each request with an id and logs it at a level
// derived from the response status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestID,
		}
		if userID := c.GetString(ContextUserIDKey); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// CORS allows the configured browser origins.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", requestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// ownerFromContext returns the authenticated owner set by AuthMiddleware.
func ownerFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr := c.GetString(ContextUserIDKey)
	if idStr == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
