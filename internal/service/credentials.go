package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// TokenVerifier checks a bearer token and returns the owner identity it
// carries. Tokens are issued by the account service, never here.
type TokenVerifier interface {
	VerifyToken(token string) (ownerID string, err error)
}

// accessClaims mirrors the payload the account service signs.
type accessClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier verifies HMAC-signed tokens with the shared secret.
func NewJWTVerifier(secret string) TokenVerifier {
	if secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) VerifyToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: token has expired", ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrMissingOwner
	}
	return claims.UserID, nil
}
