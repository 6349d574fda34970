package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"slimmom.org/internal/auth"
	"slimmom.org/internal/obs"
	"slimmom.org/internal/product"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"message": message})
}

func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// respondAuthError translates auth sentinel errors into the wire taxonomy.
// Unknown errors are treated as upstream failures and logged, never leaked.
func respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, auth.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "Email already verified")
	case errors.Is(err, auth.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, auth.ErrExpiredOTP):
		writeError(w, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrUnverified):
		writeError(w, http.StatusForbidden, "Email not verified. A new verification code has been sent.")
	case errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, "Refresh token is required")
	case errors.Is(err, auth.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrSessionNotFound):
		writeError(w, http.StatusForbidden, "Invalid refresh token")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusForbidden, "Invalid token")
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		obs.LogEvent("http.error", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		obs.LogEvent("http.error", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
