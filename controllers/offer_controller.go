package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Govind-619/MakeOffer/middleware"
	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PolicySource supplies the current counter offer curve
type PolicySource interface {
	Policy(ctx context.Context) (negotiation.PolicyConfig, error)
}

// OfferOptions configures the offer endpoints
type OfferOptions struct {
	CartURL        string
	CurrencySymbol string
	NonceSecret    string
	// LenientCartFailures answers a failed counter acceptance with the
	// accepted payload and the cart redirect, as the storefront script
	// redirects to the cart regardless.
	LenientCartFailures bool
}

// OfferController serves the make offer endpoints
type OfferController struct {
	session  *negotiation.Session
	policies PolicySource
	opts     OfferOptions
}

func NewOfferController(session *negotiation.Session, policies PolicySource, opts OfferOptions) *OfferController {
	if opts.CartURL == "" {
		opts.CartURL = utils.DefaultCartURL
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = utils.DefaultCurrencySymbol
	}
	return &OfferController{session: session, policies: policies, opts: opts}
}

// OfferResponse is the payload the storefront script renders
type OfferResponse struct {
	Status          string           `json:"status"`
	Message         string           `json:"message"`
	Redirect        string           `json:"redirect,omitempty"`
	CounterAmount   *decimal.Decimal `json:"counter_amount,omitempty"`
	AttemptNumber   int              `json:"attempt_number,omitempty"`
	CanCounterAgain bool             `json:"can_counter_again,omitempty"`
	FinalPrice      *decimal.Decimal `json:"final_price,omitempty"`
	CartItemID      string           `json:"cart_item_id,omitempty"`
}

type submitOfferRequest struct {
	ProductID   utils.FlexString `form:"product_id" json:"product_id" binding:"required"`
	OfferAmount utils.FlexString `form:"offer_amount" json:"offer_amount"`
}

type acceptCounterRequest struct {
	ProductID     utils.FlexString `form:"product_id" json:"product_id" binding:"required"`
	CounterAmount utils.FlexString `form:"counter_amount" json:"counter_amount"`
}

type restartOfferRequest struct {
	ProductID utils.FlexString `form:"product_id" json:"product_id" binding:"required"`
}

// offerResponse shapes an outcome into the transport payload
func (oc *OfferController) offerResponse(outcome negotiation.Outcome, receipt *negotiation.CartReceipt) OfferResponse {
	switch outcome.Kind {
	case negotiation.OutcomeAccepted:
		final := outcome.FinalPrice
		if receipt != nil {
			final = receipt.FinalPrice
		}
		resp := OfferResponse{
			Status:     string(negotiation.OutcomeAccepted),
			Message:    utils.MsgOfferAccepted,
			Redirect:   oc.opts.CartURL,
			FinalPrice: &final,
		}
		if receipt != nil {
			resp.CartItemID = receipt.CartItemID
		}
		return resp
	case negotiation.OutcomeCounterOffer:
		counter := outcome.CounterPrice
		template := utils.MsgSecondCounter
		if outcome.AttemptNumber == 1 {
			template = utils.MsgFirstCounter
		}
		return OfferResponse{
			Status:          string(negotiation.OutcomeCounterOffer),
			Message:         fmt.Sprintf(template, utils.FormatPrice(oc.opts.CurrencySymbol, counter)),
			CounterAmount:   &counter,
			AttemptNumber:   outcome.AttemptNumber,
			CanCounterAgain: outcome.CanCounterAgain,
		}
	default:
		counter := outcome.CounterPrice
		return OfferResponse{
			Status:        string(negotiation.OutcomeFinalOffer),
			Message:       fmt.Sprintf(utils.MsgFinalOffer, utils.FormatPrice(oc.opts.CurrencySymbol, counter)),
			CounterAmount: &counter,
			AttemptNumber: outcome.AttemptNumber,
		}
	}
}

// negotiationError maps core errors onto HTTP errors
func negotiationError(err error) error {
	switch {
	case errors.Is(err, negotiation.ErrInvalidProduct):
		return utils.NotFoundError(utils.ErrInvalidProduct, err)
	case errors.Is(err, negotiation.ErrInvalidOffer):
		return utils.UnprocessableError(utils.ErrInvalidCounterAmount, err)
	case errors.Is(err, negotiation.ErrSecurityCheckFailed):
		return utils.ForbiddenError(utils.ErrSecurityCheck, err)
	case errors.Is(err, negotiation.ErrCartInsertionFailed):
		return utils.BadGatewayError(utils.ErrCartInsertion, err)
	default:
		return utils.InternalError(utils.ErrInternalServer, err)
	}
}

// GetNonce issues an anti-forgery nonce bound to the visitor
func (oc *OfferController) GetNonce(c *gin.Context) {
	utils.LogInfo("GetNonce called")

	nonce, expiresAt, err := utils.GenerateOfferNonce(middleware.Visitor(c), oc.opts.NonceSecret, utils.NonceExpiration)
	if err != nil {
		utils.LogError("Failed to generate offer nonce: %v", err)
		utils.InternalServerError(c, "Failed to generate nonce", nil)
		return
	}

	utils.Success(c, "Nonce generated", gin.H{
		utils.NonceField: nonce,
		"expires_at":     expiresAt.UTC(),
	})
}

// SubmitOffer handles an offer submission
func (oc *OfferController) SubmitOffer(c *gin.Context) {
	utils.LogInfo("SubmitOffer called")

	var req submitOfferRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.LogError("Invalid offer request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	amount, err := req.OfferAmount.Decimal()
	if err != nil {
		utils.LogError("Invalid offer amount %q for product %s: %v", req.OfferAmount, req.ProductID, err)
		utils.RespondAppError(c, utils.UnprocessableError(utils.ErrInvalidOfferAmount, fmt.Errorf("%w: %v", negotiation.ErrInvalidOffer, err)))
		return
	}

	policy, err := oc.policies.Policy(c.Request.Context())
	if err != nil {
		utils.LogError("Failed to load offer settings: %v", err)
		utils.InternalServerError(c, "Failed to load offer settings", nil)
		return
	}

	visitor := middleware.Visitor(c)
	result, err := oc.session.SubmitOffer(c.Request.Context(), visitor, req.ProductID.String(), amount, policy)
	if err != nil {
		utils.LogError("Offer submission failed for product %s: %v", req.ProductID, err)
		utils.RespondAppError(c, negotiationError(err))
		return
	}

	c.JSON(http.StatusOK, oc.offerResponse(result.Outcome, result.Receipt))
}

// AcceptCounter finalizes a counter or final offer
func (oc *OfferController) AcceptCounter(c *gin.Context) {
	utils.LogInfo("AcceptCounter called")

	var req acceptCounterRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.LogError("Invalid accept counter request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	amount, err := req.CounterAmount.Decimal()
	if err != nil {
		utils.LogError("Invalid counter amount %q for product %s: %v", req.CounterAmount, req.ProductID, err)
		utils.RespondAppError(c, utils.UnprocessableError(utils.ErrInvalidOfferAmount, fmt.Errorf("%w: %v", negotiation.ErrInvalidOffer, err)))
		return
	}

	visitor := middleware.Visitor(c)
	receipt, err := oc.session.AcceptCounter(c.Request.Context(), visitor, req.ProductID.String(), amount)
	if err != nil {
		if oc.opts.LenientCartFailures && errors.Is(err, negotiation.ErrCartInsertionFailed) {
			utils.LogError("Cart insertion failed for product %s, redirecting to cart anyway: %v", req.ProductID, err)
			c.JSON(http.StatusOK, OfferResponse{
				Status:   string(negotiation.OutcomeAccepted),
				Message:  utils.MsgCounterAccepted,
				Redirect: oc.opts.CartURL,
			})
			return
		}
		utils.LogError("Counter acceptance failed for product %s: %v", req.ProductID, err)
		utils.RespondAppError(c, negotiationError(err))
		return
	}

	final := receipt.FinalPrice
	c.JSON(http.StatusOK, OfferResponse{
		Status:     string(negotiation.OutcomeAccepted),
		Message:    utils.MsgCounterAccepted,
		Redirect:   oc.opts.CartURL,
		FinalPrice: &final,
		CartItemID: receipt.CartItemID,
	})
}

// RestartOffer drops the visitor's attempts so a fresh offer starts at attempt 1
func (oc *OfferController) RestartOffer(c *gin.Context) {
	utils.LogInfo("RestartOffer called")

	var req restartOfferRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.LogError("Invalid restart request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := oc.session.Restart(c.Request.Context(), middleware.Visitor(c), req.ProductID.String()); err != nil {
		utils.LogError("Failed to restart negotiation for product %s: %v", req.ProductID, err)
		utils.RespondAppError(c, negotiationError(err))
		return
	}
	utils.Success(c, utils.MsgOfferRestarted, gin.H{"product_id": req.ProductID, "attempts": 0})
}

// GetOfferAttempts reports the visitor's attempts and pending counter for a product
func (oc *OfferController) GetOfferAttempts(c *gin.Context) {
	utils.LogInfo("GetOfferAttempts called")

	productID := c.Param("product_id")
	state, err := oc.session.State(c.Request.Context(), middleware.Visitor(c), productID)
	if err != nil {
		utils.LogError("Failed to read attempts for product %s: %v", productID, err)
		utils.InternalServerError(c, "Failed to read offer attempts", nil)
		return
	}

	data := gin.H{
		"product_id": productID,
		"attempts":   state.Attempts,
	}
	if state.LastCounter.Valid {
		data["counter_amount"] = state.LastCounter.Decimal
	}
	utils.Success(c, "Offer attempts retrieved", data)
}
