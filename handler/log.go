package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

func logRequest(r *http.Request, status int, elapsed time.Duration) {
	requestLogger(r).Infof("%s -- %s -- %s -- %d -- %s", r.RemoteAddr, r.Method, r.URL.Path, status, elapsed)
}

func requestLogger(r *http.Request) *logrus.Entry {
	return log.WithField("request_id", requestIDFrom(r.Context()))
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// writeError writes the error envelope. details is included, even when
// empty, only if non-nil.
func writeError(w http.ResponseWriter, code int, message any, details *string) {
	body, err := json.Marshal(ErrorResponse{Error: message, Details: details})
	if err != nil {
		body = []byte(`{"error":"internal server error"}`)
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, body)
}

func withDetails(s string) *string {
	return &s
}
