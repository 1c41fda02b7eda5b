package middleware

import (
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
)

// VisitorContextKey is the gin context key the visitor key is stored under
const VisitorContextKey = "visitor_key"

// VisitorMiddleware makes sure every request carries a visitor key cookie
func VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := utils.VisitorKey(c)
		if err != nil {
			utils.LogError("Failed to establish visitor session: %v", err)
			utils.InternalServerError(c, utils.ErrInternalServer, nil)
			c.Abort()
			return
		}
		c.Set(VisitorContextKey, key)
		c.Next()
	}
}

// Visitor returns the visitor key set by VisitorMiddleware
func Visitor(c *gin.Context) string {
	return c.GetString(VisitorContextKey)
}
