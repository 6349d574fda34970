package httpapi

import (
	"errors"
	"net/http"

	"slimmom.org/internal/auth"
)

func (a *API) handleSaveCalorieInfo(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	var info auth.CalorieInfo
	if err := decodeJSON(r, &info); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.auth.SaveCalorieInfo(r.Context(), u.ID, info); err != nil {
		respondAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Calorie information saved successfully"})
}

func (a *API) handleGetCalorieInfo(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	info, err := a.auth.GetCalorieInfo(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Calorie info not found")
			return
		}
		respondAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
