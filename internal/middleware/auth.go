package middleware

import (
	"net/http"
	"strings"
	"time"

	"campus-collective/agora/internal/auth"
	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/constants"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/logging"
)

const knownUserTTL = 15 * time.Minute

// AuthMiddleware resolves the caller's identity from either a bearer token
// or an X-API-Key header and stores the claims in the request context.
// Requests with neither credential are rejected.
func AuthMiddleware(userRepo *repositories.UserRepositoryGORM, keysRepo *repositories.KeysRepo, cache common.CacheInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims, err := resolveClaims(r, keysRepo)
			if err != nil {
				http.Error(w, constants.MsgUnauthorized+". "+err.Error(), http.StatusUnauthorized)
				return
			}

			ensureKnown(r, userRepo, cache, claims)

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves claims the same way as AuthMiddleware but
// lets the request through anonymously when no usable credential is present.
// Listing endpoints use it to personalize responses for signed-in callers.
func OptionalAuthMiddleware(userRepo *repositories.UserRepositoryGORM, keysRepo *repositories.KeysRepo, cache common.CacheInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims, err := resolveClaims(r, keysRepo)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ensureKnown(r, userRepo, cache, claims)

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveClaims(r *http.Request, keysRepo *repositories.KeysRepo) (auth.UserClaims, error) {

	authHeader := r.Header.Get("Authorization")
	apiKey := r.Header.Get("X-API-Key")

	switch {
	case strings.HasPrefix(authHeader, "Bearer "):
		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseBearerToken(token)
		if err != nil {
			return nil, errInvalidToken
		}
		return claims, nil

	case apiKey != "":
		keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
		if err != nil {
			return nil, errInvalidKey
		}
		if !keyRes.Status {
			return nil, errInactiveKey
		}
		return auth.MakeClaimsFromKey(keyRes), nil

	default:
		return nil, errNoCredentials
	}
}

// ensureKnown materializes the identity locally on first sight so foreign
// keys resolve. Failures are logged and swallowed: a request with a valid
// credential should not bounce because the projection insert hiccuped.
func ensureKnown(r *http.Request, userRepo *repositories.UserRepositoryGORM, cache common.CacheInterface, claims auth.UserClaims) {
	cacheKey := string(constants.CachePrefixKnownUser) + claims.UserID()

	// Load-through on a marker key: insert errors stay uncached so the next
	// request retries.
	_, err := cache.GetOrSet(cacheKey, knownUserTTL, func() (any, error) {
		if err := userRepo.EnsureExists(r.Context(), claims.UserID(), claims.DisplayName(), claims.Role()); err != nil {
			return nil, err
		}
		return true, nil
	})
	if err != nil {
		logging.Warn("user projection insert failed", "user_id", claims.UserID(), "error", err.Error())
	}
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errInvalidToken  authError = "Invalid bearer token"
	errInvalidKey    authError = "Invalid API Key"
	errInactiveKey   authError = "Inactive API Key"
	errNoCredentials authError = "Missing credentials"
)
