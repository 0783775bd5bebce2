package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/zazapeta/restify/pkg/restify"
)

// errorBody is the wire shape of every generated error response: the numeric
// status, the standard reason phrase and a human-readable message, plus
// per-field details on validation failures.
type errorBody struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string, details map[string]string) {
	writeJSON(w, status, errorBody{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
		Details:    details,
	})
}

// decodeBody reads the request body as a JSON object. An empty body decodes
// to an empty map so absent payloads and `{}` behave identically.
func decodeBody(r *http.Request) (map[string]any, error) {
	if r.Body == nil {
		return map[string]any{}, nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, restify.Validationf("body", "could not be read")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var value map[string]any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, restify.Validationf("body", "must be a JSON object")
	}
	return value, nil
}
