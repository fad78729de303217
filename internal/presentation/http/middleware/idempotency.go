package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/entity"
	"github.com/sangkips/salepilot-api/internal/domain/repository"
	"github.com/sangkips/salepilot-api/internal/infrastructure/lock"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salepilot-api/pkg/apperror"
	"github.com/sangkips/salepilot-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Locker lock.Locker
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyRequired requires an Idempotency-Key on POST requests. Keys are scoped to
// the tenant and user; a repeated key replays the stored 2xx response instead of
// running the handler again. Concurrent requests with the same key are serialized.
// A key belongs to the route it was first used on and is rejected on any other.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			response.BadRequest(c, "Idempotency-Key header is required for this request")
			c.Abort()
			return
		}
		if len(idempotencyKey) > 255 {
			response.BadRequest(c, "Idempotency-Key header is too long")
			c.Abort()
			return
		}

		tenantID := GetTenantID(c)
		claims := GetClaims(c)
		if claims == nil || tenantID == uuid.Nil {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}
		userID := claims.UserID
		ctx := c.Request.Context()
		endpoint := c.Request.Method + " " + c.FullPath()

		if config.Locker != nil {
			release, err := config.Locker.Obtain(ctx, lock.Key("idempotency", tenantID, userID, idempotencyKey))
			if err != nil {
				response.Error(c, err)
				c.Abort()
				return
			}
			defer release()
		}

		existing, err := config.Repo.GetByKey(ctx, tenantID, userID, idempotencyKey)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if existing != nil {
			switch {
			case existing.IsExpired():
				// not purged yet; clear it so the new response can be stored under the same key
				if err := config.Repo.Delete(ctx, existing.ID); err != nil {
					response.Error(c, err)
					c.Abort()
					return
				}
			case existing.Endpoint != endpoint:
				response.Error(c, apperror.NewConflictError("Idempotency-Key was already used for "+existing.Endpoint))
				c.Abort()
				return
			default:
				c.Header("X-Idempotency-Replayed", "true")
				c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful responses are replayable
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			ikey := &entity.IdempotencyKey{
				TenantID:     tenantID,
				UserID:       userID,
				Key:          idempotencyKey,
				Endpoint:     endpoint,
				ResponseCode: c.Writer.Status(),
				ResponseBody: blw.body.String(),
				ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
			}

			if err := config.Repo.Create(ctx, ikey); err != nil {
				logger.LogError(RequestLogger(c), "middleware", "IdempotencyRequired", "store idempotency key", ikey.Endpoint, err)
			}
		}
	}
}
