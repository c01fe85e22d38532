package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BISWAJIT-BARAL01/FreshMart/domain/entities"
)

// JWTClaims represents the claims in our JWT token. Authorization decisions
// read the role claim only; identities are never special-cased.
type JWTClaims struct {
	UserID string        `json:"user_id"`
	Role   entities.Role `json:"role"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for tokens that fail validation.
var ErrInvalidToken = errors.New("invalid or expired token")

const userTokenTTL = 7 * 24 * time.Hour

// secret returns the signing key from the environment, with a dev default.
func secret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("freshmart-dev-secret")
}

// GenerateUserToken generates a JWT token carrying the user's role.
func GenerateUserToken(userID string, role entities.Role) (string, error) {
	if role != entities.RoleUser && role != entities.RoleAdmin {
		return "", errors.New("invalid role")
	}
	claims := &JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(userTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ValidateToken validates a JWT token and returns the claims.
func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
