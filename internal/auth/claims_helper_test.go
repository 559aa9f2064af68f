package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/models/entities"
)

const testSecret = "test-jwt-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseBearerToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwt.MapClaims{
		"sub":  "user-123",
		"name": "Alice",
		"role": "organizer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ParseBearerToken(token)
	if err != nil {
		t.Fatalf("ParseBearerToken: %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Errorf("UserID = %q", claims.UserID())
	}
	if claims.DisplayName() != "Alice" {
		t.Errorf("DisplayName = %q", claims.DisplayName())
	}
	if claims.Role() != constants.RoleOrganizer {
		t.Errorf("Role = %q", claims.Role())
	}
	if !claims.CanManageEvents() {
		t.Error("organizer claims must manage events")
	}
	if claims.Source() != constants.RequestSourceJWT {
		t.Errorf("Source = %q", claims.Source())
	}
}

func TestParseBearerTokenDefaultsRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	// No role claim at all.
	claims, err := ParseBearerToken(signToken(t, jwt.MapClaims{"sub": "user-123"}))
	if err != nil {
		t.Fatalf("ParseBearerToken: %v", err)
	}
	if claims.Role() != constants.RoleUser {
		t.Errorf("Role = %q, want user", claims.Role())
	}
	if claims.CanManageEvents() || claims.IsAdmin() {
		t.Error("plain user claims must not carry privileges")
	}
}

func TestParseBearerTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := ParseBearerToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseBearerTokenRejectsMissingSubject(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	if _, err := ParseBearerToken(signToken(t, jwt.MapClaims{"name": "Nobody"})); err == nil {
		t.Fatal("token without sub accepted")
	}
}

func TestParseBearerTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-different-secret")

	token := signToken(t, jwt.MapClaims{"sub": "user-123"})
	if _, err := ParseBearerToken(token); err == nil {
		t.Fatal("token signed with wrong secret accepted")
	}
}

func TestParseBearerTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := ParseBearerToken("anything"); err == nil {
		t.Fatal("missing JWT_SECRET must fail closed")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want constants.UserRole
	}{
		{"user", constants.RoleUser},
		{"organizer", constants.RoleOrganizer},
		{"admin", constants.RoleAdmin},
		{" Admin ", constants.RoleAdmin},
		{"ORGANIZER", constants.RoleOrganizer},
		{"superuser", constants.RoleUser},
		{"", constants.RoleUser},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.raw); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestMakeClaimsFromKey(t *testing.T) {
	claims := MakeClaimsFromKey(&entities.ApiKey{
		UserID: "kiosk-owner",
		Label:  "Front Desk Scanner",
	})

	if claims.UserID() != "kiosk-owner" {
		t.Errorf("UserID = %q", claims.UserID())
	}
	if claims.DisplayName() != "Front Desk Scanner" {
		t.Errorf("DisplayName = %q", claims.DisplayName())
	}
	if claims.Role() != constants.RoleUser {
		t.Errorf("Role = %q, keys always act as plain users", claims.Role())
	}
	if claims.CanManageEvents() || claims.IsAdmin() {
		t.Error("key claims must not carry privileges")
	}
	if claims.Source() != constants.RequestSourceAPIKey {
		t.Errorf("Source = %q", claims.Source())
	}
}
