package web

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {

	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user_key": user.UserKey,
		"email":    user.Email,
		"name":     user.Name,
		"is_admin": user.IsAdmin,
	})
}

// handleRedirect validates the declared target before issuing a 302.
// A rejected target gets a generic client error; the value is neither
// echoed back nor followed.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {

	target := r.URL.Query().Get("to")

	if err := s.guard.Validate(target); err != nil {
		s.logger.Warn(r.Context(), "redirect target rejected", "error", err)
		http.Error(w, "invalid redirect target", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
