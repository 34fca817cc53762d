package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"studybuddy/core"
)

// Middleware wraps the mux with request counting, timing, CORS, access
// logging and panic recovery.
func (h *Handlers) Middleware(next http.Handler, allowedOrigins []string) http.Handler {
	origins := map[string]bool{}
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.requestCount.Add(1)

		if origin := r.Header.Get("Origin"); origin != "" && origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				core.WriteJSON(w, http.StatusInternalServerError, core.ErrorResponse{
					Error:   "An unexpected error occurred",
					Message: "Our team has been notified. Please try again later.",
				})
			}
		}()

		tw := &timingWriter{ResponseWriter: w, start: start}
		next.ServeHTTP(tw, r)

		log.Printf("%s %s -> %d (%.2fms)", r.Method, r.URL.Path, tw.status(), float64(time.Since(start).Microseconds())/1000)
	})
}

// timingWriter sets the X-Process-Time header just before the first
// byte of the response is written.
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
	code        int
}

func (t *timingWriter) WriteHeader(code int) {
	if !t.wroteHeader {
		t.Header().Set("X-Process-Time", fmt.Sprintf("%.6f", time.Since(t.start).Seconds()))
		t.wroteHeader = true
		t.code = code
	}
	t.ResponseWriter.WriteHeader(code)
}

func (t *timingWriter) Write(b []byte) (int, error) {
	if !t.wroteHeader {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(b)
}

func (t *timingWriter) status() int {
	if t.code == 0 {
		return http.StatusOK
	}
	return t.code
}
