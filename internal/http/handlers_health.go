package httpx

import "net/http"

const healthResponse = `{"status":"ok"}`

// healthHandler reports liveness. HEAD requests get headers only.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(healthResponse))
}
