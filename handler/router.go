package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// StatusMessage is the body of GET /.
const StatusMessage = "Inventory Management Backend is running!"

// NewRouter wires the routes and the middleware around them.
func NewRouter(predict http.Handler) http.Handler {
	r := mux.NewRouter()

	r.Handle("/predict", predict).Methods(http.MethodPost)
	r.HandleFunc("/", handleStatus).Methods(http.MethodGet, http.MethodHead)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found", nil)
	})

	return Chain(requestLogMiddleware, recoveryMiddleware, corsMiddleware)(r)
}

func handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(StatusMessage))
}
