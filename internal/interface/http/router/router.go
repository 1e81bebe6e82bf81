package router

import (
	"net/http"
)

// New builds the router of the realtime listener. It stays on net/http
// because websocket upgrades need a hijackable ResponseWriter.
func New(realtime http.Handler, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.Handle("/metrics", metrics)
	mux.Handle("/realtime/cart", realtime)

	return mux
}
