package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/domain/tenant"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
	"github.com/sirupsen/logrus"
)

// TenantStatus reports whether a tenant may currently transact
type TenantStatus interface {
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

// BindTenant resolves the tenant from the token and binds it to the request context.
// Every tenant-scoped service reads it from there; requests for unknown or
// deactivated tenants stop here.
func BindTenant(status TenantStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.TenantID == uuid.Nil {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		active, err := status.IsActive(c.Request.Context(), claims.TenantID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !active {
			response.Forbidden(c, "Tenant is disabled")
			c.Abort()
			return
		}

		c.Set("tenant_id", claims.TenantID)
		c.Request = c.Request.WithContext(tenant.WithID(c.Request.Context(), claims.TenantID))

		if entry, ok := c.Get(loggerKey); ok {
			if log, ok := entry.(*logrus.Entry); ok {
				c.Set(loggerKey, log.WithField("tenant_id", claims.TenantID))
			}
		}

		c.Next()
	}
}

// GetTenantID retrieves the bound tenant ID, or uuid.Nil
func GetTenantID(c *gin.Context) uuid.UUID {
	id, ok := tenant.FromContext(c.Request.Context())
	if !ok {
		return uuid.Nil
	}
	return id
}
