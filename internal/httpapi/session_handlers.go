package httpapi

import (
	"net/http"
	"time"

	"slimmom.org/internal/audit"
)

type accessTokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (a *API) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	access, exp, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondAuthError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.token.refreshed", nil)
	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: access, ExpiresAt: exp})
}
