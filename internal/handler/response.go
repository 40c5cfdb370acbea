package handler

import (
	"encoding/json"
	"net/http"

	"github.com/naka-gawa/github-contributions/internal/gateway"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}

// transportDetails carries the raw upstream bodies; nil for the call that succeeded.
type transportDetails struct {
	ContribError *string `json:"contribError"`
	CommitsError *string `json:"commitsError"`
}

type transportErrorResponse struct {
	Error   string           `json:"error"`
	Details transportDetails `json:"details"`
}

type protocolErrorResponse struct {
	Error   string                 `json:"error"`
	Details []gateway.GraphQLError `json:"details"`
}

type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func bodyOf(e *gateway.UpstreamError) *string {
	if e == nil {
		return nil
	}
	body := e.Body
	return &body
}
