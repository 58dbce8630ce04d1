// Package middlewares provides net/http middleware for the entitycache admin server.
//
// All middlewares have the func(http.Handler) http.Handler shape and plug
// into chi directly:
//
//	r := chi.NewRouter()
//	r.Use(
//	    middlewares.RequestID(),
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	    middlewares.AccessLog(log),
//	    middlewares.Timeout(10*time.Second),
//	)
//
// Pair RequestID with [RequestIDExtractor] so every log line written with the
// request context carries request_id:
//
//	log := logger.New(level, middlewares.RequestIDExtractor())
package middlewares
