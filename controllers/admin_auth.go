package controllers

import (
	"time"

	"github.com/Govind-619/MakeOffer/middleware"
	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminAuthController handles admin login and logout
type AdminAuthController struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAdminAuthController(db *gorm.DB, jwtSecret string) *AdminAuthController {
	return &AdminAuthController{db: db, jwtSecret: jwtSecret}
}

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles admin authentication
func (ac *AdminAuthController) AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}
	utils.LogDebug("Processing login request for email: %s", req.Email)

	var admin models.Admin
	if err := ac.db.WithContext(c.Request.Context()).Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.LogError("Admin not found for email: %s: %v", req.Email, err)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if !admin.IsActive {
		utils.LogError("Inactive admin account attempted login: %s", admin.Email)
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Invalid password for admin: %s", admin.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	admin.LastLogin = time.Now()
	if err := ac.db.WithContext(c.Request.Context()).Model(&admin).Update("last_login", admin.LastLogin).Error; err != nil {
		utils.LogError("Failed to update last login for admin: %s: %v", admin.Email, err)
	}

	tokenString, expiresAt, err := utils.GenerateAdminToken(admin.ID, ac.jwtSecret, utils.AdminTokenExpiration)
	if err != nil {
		utils.LogError("Failed to sign JWT token for admin: %s: %v", admin.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("Admin login successful: %s", admin.Email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token":      tokenString,
		"expires_at": expiresAt.UTC(),
		"admin": gin.H{
			"id":        admin.ID,
			"email":     admin.Email,
			"firstName": admin.FirstName,
			"lastName":  admin.LastName,
		},
	})
}

// AdminLogout blacklists the presented token until it expires
func (ac *AdminAuthController) AdminLogout(c *gin.Context) {
	utils.LogInfo("AdminLogout called")

	tokenString, ok := middleware.BearerToken(c)
	if !ok {
		utils.LogError("Missing Authorization header on logout")
		utils.Success(c, utils.MsgLogoutSuccess, nil)
		return
	}

	expiresAt := time.Now().Add(utils.AdminTokenExpiration)
	if claims, err := utils.ParseAdminToken(tokenString, ac.jwtSecret); err == nil && claims.ExpiresAt > 0 {
		expiresAt = time.Unix(claims.ExpiresAt, 0)
	}

	blacklisted := models.BlacklistedToken{
		Token:     tokenString,
		ExpiresAt: expiresAt,
	}
	if err := ac.db.WithContext(c.Request.Context()).Create(&blacklisted).Error; err != nil {
		utils.LogError("Failed to blacklist token on logout: %v", err)
	}

	utils.LogDebug("Admin logout processed and token blacklisted")
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}
