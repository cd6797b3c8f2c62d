package api

import "net/http"

func (s *server) listPlatformsHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, apiResponse{ //nolint:errcheck
		Success: true,
		Data:    map[string]any{"platforms": s.renderers.Details()},
	}, nil)
}
