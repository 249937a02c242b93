package handlers

import (
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// actorFromContext reconstructs the authenticated identity placed in the gin
// context by the auth middleware. A zero Actor means the request was not
// authenticated, which the middleware should have prevented.
func actorFromContext(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int64); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("username"); ok {
		if name, ok := v.(string); ok {
			actor.Username = name
		}
	}
	if v, ok := c.Get("userRole"); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
