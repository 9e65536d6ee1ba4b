package utils

import (
	"errors"
	"time"

	"eclinic/models"

	"github.com/golang-jwt/jwt"
)

// GenerateToken creates a signed JWT carrying the session's subject, name and role.
// The token expires after the specified duration.
func GenerateToken(session models.Session, secret []byte, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  session.UserID,
		"name": session.Name,
		"role": session.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string, secret []byte) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// SessionFromToken validates tokenString and decodes the caller's session from its claims.
func SessionFromToken(tokenString string, secret []byte) (models.Session, error) {
	token, err := ValidateToken(tokenString, secret)
	if err != nil {
		return models.Session{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Session{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Session{}, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := claims["role"].(string)
	switch role {
	case models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	default:
		return models.Session{}, errors.New("token does not contain a valid 'role' claim")
	}
	name, _ := claims["name"].(string)

	return models.Session{UserID: sub, Name: name, Role: role}, nil
}
