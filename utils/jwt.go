package utils

import (
	"errors"

	"tourly/config"

	"github.com/golang-jwt/jwt"
)

// secretKey reads the signing secret from config on each use, so it is
// valid regardless of package initialization order. The dev fallback keeps
// local runs working without a config file.
func secretKey() []byte {
	if s := config.AppConfig.JWTSecret; s != "" {
		return []byte(s)
	}
	return []byte("tourly-dev")
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractIDFromToken extracts the caller ID (subject) from a valid JWT
// token string. Identity issuance itself lives in the auth service; this
// engine only reads the subject claim.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
