package controllers

import (
	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/repository"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
)

// OfferSettingsController exposes the make offer settings to admins
type OfferSettingsController struct {
	settings *repository.SettingsRepository
}

func NewOfferSettingsController(settings *repository.SettingsRepository) *OfferSettingsController {
	return &OfferSettingsController{settings: settings}
}

// OfferSettingsRequest updates any subset of the settings
type OfferSettingsRequest struct {
	EmailNotifications      *bool `json:"email_notifications"`
	FirstCounterPercentage  *int  `json:"first_counter_percentage"`
	SecondCounterPercentage *int  `json:"second_counter_percentage"`
}

// GetOfferSettings returns the current settings
func (sc *OfferSettingsController) GetOfferSettings(c *gin.Context) {
	utils.LogInfo("GetOfferSettings called")

	settings, err := sc.settings.Load(c.Request.Context())
	if err != nil {
		utils.LogError("Failed to load offer settings: %v", err)
		utils.InternalServerError(c, "Failed to load offer settings", nil)
		return
	}
	utils.Success(c, "Offer settings retrieved", settings)
}

// UpdateOfferSettings validates and saves new settings
func (sc *OfferSettingsController) UpdateOfferSettings(c *gin.Context) {
	utils.LogInfo("UpdateOfferSettings called")

	var req OfferSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid offer settings request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	settings, err := sc.settings.Load(c.Request.Context())
	if err != nil {
		utils.LogError("Failed to load offer settings: %v", err)
		utils.InternalServerError(c, "Failed to load offer settings", nil)
		return
	}

	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}
	if req.FirstCounterPercentage != nil {
		settings.FirstCounterPercentage = *req.FirstCounterPercentage
	}
	if req.SecondCounterPercentage != nil {
		settings.SecondCounterPercentage = *req.SecondCounterPercentage
	}

	policy := negotiation.PolicyConfig{
		FirstCounterPercent:  settings.FirstCounterPercentage,
		SecondCounterPercent: settings.SecondCounterPercentage,
	}
	if err := policy.Validate(); err != nil {
		utils.LogError("Rejected offer settings: %v", err)
		utils.ValidationError(c, utils.ErrInvalidPercentage, err.Error())
		return
	}

	if err := sc.settings.Save(c.Request.Context(), &settings); err != nil {
		utils.LogError("Failed to save offer settings: %v", err)
		utils.InternalServerError(c, "Failed to save offer settings", nil)
		return
	}

	utils.LogInfo("Offer settings updated - first: %d%%, second: %d%%, email: %v",
		settings.FirstCounterPercentage, settings.SecondCounterPercentage, settings.EmailNotifications)
	utils.Success(c, utils.MsgUpdateSuccess, settings)
}
