package api

import (
	"encoding/json"
	"net/http"
)

// writeJSON sends v as a JSON body with the given status
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// respondWithError logs the error and sends a plain error response
// Use this to avoid exposing internal errors while still logging them
func respondWithError(w http.ResponseWriter, s *Server, code int, message string, err error) {
	evt := s.log.Warn().Int("code", code)
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg(message)
	http.Error(w, message, code)
}
