package middleware

import (
	"strings"

	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminContextKey is the gin context key the authenticated admin is stored under
const AdminContextKey = "admin"

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// AdminAuthMiddleware authenticates admins by JWT and rejects logged out tokens
func AdminAuthMiddleware(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogInfo("AdminAuthMiddleware called")

		tokenString, ok := BearerToken(c)
		if !ok {
			utils.LogError("Missing or malformed Authorization header")
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := utils.ParseAdminToken(tokenString, jwtSecret)
		if err != nil {
			utils.LogError("Invalid admin token: %v", err)
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		var blacklisted int64
		if err := db.Model(&models.BlacklistedToken{}).Where("token = ?", tokenString).Count(&blacklisted).Error; err != nil {
			utils.LogError("Failed to check token blacklist: %v", err)
			utils.InternalServerError(c, utils.ErrInternalServer, nil)
			c.Abort()
			return
		}
		if blacklisted > 0 {
			utils.LogError("Blacklisted admin token used for admin %d", claims.AdminID)
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		var admin models.Admin
		if err := db.First(&admin, claims.AdminID).Error; err != nil {
			utils.LogError("Admin not found: %v", err)
			utils.Unauthorized(c, "Admin not found")
			c.Abort()
			return
		}
		if !admin.IsActive {
			utils.LogError("Inactive admin attempted access: %d", admin.ID)
			utils.Forbidden(c, "Admin account is inactive")
			c.Abort()
			return
		}

		c.Set(AdminContextKey, admin)
		utils.LogInfo("Admin %d authenticated successfully", admin.ID)
		c.Next()
	}
}
