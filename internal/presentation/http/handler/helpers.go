package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salepilot-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salepilot-api/pkg/utils"
)

// pathID parses a uuid path parameter and writes a 400 when it is malformed
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// optionalID parses an optional uuid query value
func optionalID(c *gin.Context, name, value string) (*uuid.UUID, bool) {
	if value == "" {
		return nil, true
	}
	id, err := utils.ParseUUID(value)
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}
