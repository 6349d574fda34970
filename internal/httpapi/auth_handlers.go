package httpapi

import (
	"errors"
	"net/http"
	"time"

	"slimmom.org/internal/audit"
	"slimmom.org/internal/auth"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type tokenPairResponse struct {
	Message          string      `json:"message,omitempty"`
	AccessToken      string      `json:"accessToken"`
	RefreshToken     string      `json:"refreshToken"`
	AccessExpiresAt  time.Time   `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time   `json:"refreshExpiresAt"`
	User             userPayload `json:"user"`
}

func toUserPayload(u *auth.User) userPayload {
	return userPayload{Name: u.Name, Email: u.Email, Role: u.Role}
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := a.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		// The account may already be committed when dispatch fails; the
		// client recovers through resend-otp.
		if errors.Is(err, auth.ErrUpstream) && u != nil {
			writeError(w, http.StatusInternalServerError, "Failed to send verification email")
			return
		}
		respondAuthError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.registered", map[string]any{"user_id": u.ID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful. Please verify your email.",
		"userId":  u.ID,
	})
}

func (a *API) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pair, u, err := a.auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.verified", map[string]any{"user_id": u.ID})
	writeJSON(w, http.StatusOK, tokenPairResponse{
		Message:          "Email verified successfully",
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             toUserPayload(u),
	})
}

func (a *API) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.auth.ResendOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, auth.ErrUpstream) {
			writeError(w, http.StatusInternalServerError, "Failed to send verification email")
			return
		}
		respondAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "New verification code sent successfully"})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pair, u, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnverified) && u != nil {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"message": "Email not verified. A new verification code has been sent.",
				"userId":  u.ID,
			})
			return
		}
		respondAuthError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.login", map[string]any{"user_id": u.ID})
	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		User:             toUserPayload(u),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	// Logout succeeds even on a malformed body; there is nothing to revoke.
	_ = decodeJSON(r, &req)
	if err := a.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		respondAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}

func (a *API) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := a.auth.CreateAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.admin.created", map[string]any{"admin_id": u.ID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Admin created successfully",
		"admin":   toUserPayload(u),
	})
}
