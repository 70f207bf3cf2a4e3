package http

import (
	"net/http"

	"calico/internal/core"
)

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := s.deps.Settings.Settings(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeDTO{Theme: settings.Theme})
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req themeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: err.Error()})
		return
	}
	if !core.ValidTheme(req.Theme) {
		writeJSON(w, http.StatusUnprocessableEntity, errorDTO{Error: "invalid theme"})
		return
	}

	if err := s.deps.Settings.SaveSettings(r.Context(), core.UserSettings{UserID: user, Theme: req.Theme}); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateUser(user)
	writeJSON(w, http.StatusOK, themeDTO{Theme: req.Theme})
}
