package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	noncePurpose      = "make_offer"
	adminTokenPurpose = "admin"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature, expiry or purpose checks
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrNonceMismatch is returned for nonces minted for another visitor
	ErrNonceMismatch = errors.New("nonce does not belong to this visitor")
)

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AdminClaims are the claims of an admin session token
type AdminClaims struct {
	AdminID uint   `json:"admin_id"`
	Purpose string `json:"purpose"`
	jwt.StandardClaims
}

// NonceClaims are the claims of an offer anti-forgery token
type NonceClaims struct {
	VisitorKey string `json:"visitor_key"`
	Purpose    string `json:"purpose"`
	jwt.StandardClaims
}

func hmacKey(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateAdminToken creates a JWT for an admin
func GenerateAdminToken(adminID uint, secret string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	token, err := sign(AdminClaims{
		AdminID: adminID,
		Purpose: adminTokenPurpose,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}, secret)
	return token, expiresAt, err
}

// ParseAdminToken validates an admin JWT and returns its claims
func ParseAdminToken(tokenString, secret string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(secret))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Purpose != adminTokenPurpose || claims.AdminID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateOfferNonce creates an anti-forgery token bound to a visitor
func GenerateOfferNonce(visitorKey, secret string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	token, err := sign(NonceClaims{
		VisitorKey: visitorKey,
		Purpose:    noncePurpose,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}, secret)
	return token, expiresAt, err
}

// VerifyOfferNonce checks the nonce signature, expiry and visitor binding
func VerifyOfferNonce(nonce, visitorKey, secret string) error {
	if nonce == "" {
		return fmt.Errorf("%w: missing nonce", ErrInvalidToken)
	}
	claims := &NonceClaims{}
	token, err := jwt.ParseWithClaims(nonce, claims, hmacKey(secret))
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Purpose != noncePurpose {
		return ErrInvalidToken
	}
	if claims.VisitorKey != visitorKey {
		return ErrNonceMismatch
	}
	return nil
}
