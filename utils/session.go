package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VisitorKey returns the visitor key held in the session cookie, minting a
// new one on first contact
func VisitorKey(c *gin.Context) (string, error) {
	if key := CurrentVisitorKey(c); key != "" {
		return key, nil
	}

	session := sessions.Default(c)
	key := uuid.New().String()
	session.Set(VisitorSessionKey, key)
	if err := session.Save(); err != nil {
		return "", fmt.Errorf("failed to save visitor session: %v", err)
	}
	LogDebug("Minted visitor key %s", key)
	return key, nil
}

// CurrentVisitorKey returns the visitor key without minting one
func CurrentVisitorKey(c *gin.Context) string {
	key, _ := sessions.Default(c).Get(VisitorSessionKey).(string)
	return key
}

// CheckSessionStore verifies the session store can be written
func CheckSessionStore(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set("test", "test")
	if err := session.Save(); err != nil {
		return fmt.Errorf("session store check failed: %v", err)
	}
	session.Delete("test")
	return session.Save()
}
