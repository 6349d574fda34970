package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"slimmom.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// requireAuth authenticates the bearer access token and injects the user
// into the request context.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		u, err := a.auth.AuthenticateAccess(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "Unauthorized - Invalid or missing token")
			default:
				writeError(w, http.StatusInternalServerError, "Internal server error during authentication")
			}
			return
		}
		ctx := auth.ContextWithUser(r.Context(), u)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// requireRole authenticates and additionally demands one of the given roles.
func (a *API) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return a.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.UserFromContext(r.Context())
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if u.Role != role {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusForbidden, "Forbidden - You do not have the required permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
