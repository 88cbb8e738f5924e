package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"planboard/internal/identity"
	"planboard/internal/model"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// GenerateToken issues an HS256 token carrying the caller's identity
// assertion: id, role and team/project scope.
func GenerateToken(c identity.Caller, secret string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": c.ID.String(),
		"role":    string(c.Role),
		"exp":     time.Now().Add(expiry).Unix(),
	}
	if c.TeamID != nil {
		claims["team_id"] = c.TeamID.String()
	}
	if c.ProjectID != nil {
		claims["project_id"] = c.ProjectID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and reconstructs the caller from its
// claims. Unknown roles are rejected here so they can never reach the
// authorization layer.
func ParseToken(tokenStr, secret string) (identity.Caller, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return identity.Caller{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Caller{}, ErrInvalidClaims
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return identity.Caller{}, ErrInvalidClaims
	}

	rawRole, _ := claims["role"].(string)
	role := model.Role(rawRole)
	if !role.Valid() {
		return identity.Caller{}, ErrInvalidClaims
	}

	caller := identity.Caller{ID: userID, Role: role}
	if raw, ok := claims["team_id"].(string); ok {
		if teamID, err := uuid.Parse(raw); err == nil {
			caller.TeamID = &teamID
		}
	}
	if raw, ok := claims["project_id"].(string); ok {
		if projectID, err := uuid.Parse(raw); err == nil {
			caller.ProjectID = &projectID
		}
	}

	return caller, nil
}
