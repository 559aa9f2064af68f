package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/models/entities"
)

// ParseBearerToken validates an HS256 token minted by the identity provider
// and projects its claims onto JWTClaims. Tokens carry sub (user uuid), name
// and role; an unknown or missing role downgrades to plain user rather than
// failing the request.
func ParseBearerToken(tokenString string) (*JWTClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("malformed token claims")
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	name, _ := mapClaims["name"].(string)
	role, _ := mapClaims["role"].(string)

	return &JWTClaims{
		UserUUID:  sub,
		NameValue: name,
		RoleValue: ParseRole(role),
	}, nil
}

// ParseRole maps a raw role claim onto a known role, defaulting to user.
func ParseRole(raw string) constants.UserRole {
	switch constants.UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case constants.RoleOrganizer:
		return constants.RoleOrganizer
	case constants.RoleAdmin:
		return constants.RoleAdmin
	default:
		return constants.RoleUser
	}
}

// MakeClaimsFromKey projects an active API key row onto kiosk claims. The
// key's owning user id becomes the acting identity.
func MakeClaimsFromKey(key *entities.ApiKey) *APIKeyClaims {
	return &APIKeyClaims{
		UserUUID:   key.UserID,
		LabelValue: key.Label,
	}
}
