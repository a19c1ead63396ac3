package api

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RespondWithJSON writes the payload with the given status code.
func RespondWithJSON(code int, w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("could not write json response")
	}
}

func failureResponse(code int, w http.ResponseWriter, message string) {
	RespondWithJSON(code, w, map[string]interface{}{"code": code, "message": message})
}
