package api

import "net/http"

// healthCheckHandler reports the server as available together with the
// number of platforms it can translate to.
func (s *server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, apiResponse{ //nolint:errcheck
		Success: true,
		Message: "OK",
		Data: map[string]any{
			"status":    "available",
			"platforms": len(s.renderers.Details()),
		},
	}, nil)
}
