package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
)

const maxNonceBody = 1 << 20

// OfferNonceMiddleware rejects offer mutations without a valid anti-forgery
// nonce for the current visitor. The nonce is read from the header, a form
// field or a JSON body field; JSON bodies are restored for the handler.
func OfferNonceMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce := extractNonce(c)
		if err := utils.VerifyOfferNonce(nonce, Visitor(c), secret); err != nil {
			utils.LogError("Security check failed on %s: %v", c.Request.URL.Path, err)
			utils.Forbidden(c, utils.ErrSecurityCheck)
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractNonce(c *gin.Context) string {
	if nonce := c.GetHeader(utils.NonceHeader); nonce != "" {
		return nonce
	}

	if !strings.HasPrefix(c.ContentType(), "application/json") {
		return c.PostForm(utils.NonceField)
	}
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNonceBody))
	c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var nonce string
	if raw, ok := payload[utils.NonceField]; ok {
		_ = json.Unmarshal(raw, &nonce)
	}
	return nonce
}
