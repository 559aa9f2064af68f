package auth

import "campus-collective/agora/internal/constants"

// UserClaims is the resolved identity attached to a request, whichever
// credential produced it. The identity provider itself is external; requests
// arrive with tokens already issued and we only decode what they assert.
type UserClaims interface {
	UserID() string
	DisplayName() string
	Role() constants.UserRole
	Source() constants.RequestSource
	CanManageEvents() bool
	IsAdmin() bool
}

// JWTClaims carries the subject of a bearer token.
type JWTClaims struct {
	UserUUID  string
	NameValue string
	RoleValue constants.UserRole
}

func (c *JWTClaims) UserID() string                  { return c.UserUUID }
func (c *JWTClaims) DisplayName() string             { return c.NameValue }
func (c *JWTClaims) Role() constants.UserRole        { return c.RoleValue }
func (c *JWTClaims) Source() constants.RequestSource { return constants.RequestSourceJWT }
func (c *JWTClaims) CanManageEvents() bool           { return c.RoleValue.CanManageEvents() }
func (c *JWTClaims) IsAdmin() bool                   { return c.RoleValue == constants.RoleAdmin }

// APIKeyClaims identifies a scanner kiosk. Keys always act as a plain user:
// kiosks join nothing and manage nothing, they only drive check and verify
// flows on behalf of their fixed device identity.
type APIKeyClaims struct {
	UserUUID   string
	LabelValue string
}

func (c *APIKeyClaims) UserID() string                  { return c.UserUUID }
func (c *APIKeyClaims) DisplayName() string             { return c.LabelValue }
func (c *APIKeyClaims) Role() constants.UserRole        { return constants.RoleUser }
func (c *APIKeyClaims) Source() constants.RequestSource { return constants.RequestSourceAPIKey }
func (c *APIKeyClaims) CanManageEvents() bool           { return false }
func (c *APIKeyClaims) IsAdmin() bool                   { return false }
