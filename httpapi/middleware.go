package httpapi

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request in the same bare-bones
// log.New(os.Stderr, "", 0) style the rest of the codebase uses,
// carrying the chi request ID so a line can be traced back to a panic
// recovery log entry.
func RequestLogger(next http.Handler) http.Handler {
	logger := log.New(os.Stderr, "", 0)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Printf("%s %s %s %d %s %s",
			middleware.GetReqID(r.Context()), r.Method, r.URL.Path,
			ww.Status(), time.Since(start), r.RemoteAddr)
	})
}
