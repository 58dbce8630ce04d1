package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/entitycache/internal/server"
	"github.com/dmitrymomot/entitycache/middlewares"
	"github.com/dmitrymomot/entitycache/pkg/health"
	"github.com/dmitrymomot/entitycache/pkg/redis"
)

const requestTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve health checks, Prometheus metrics and cache admin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.HTTP.Addr = addr
			}
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			return server.Run(cmd.Context(), server.Config{
				Handler:       newRouter(a),
				Addr:          a.cfg.HTTP.Addr,
				Logger:        a.log,
				ShutdownHooks: []func(ctx context.Context) error{a.close},
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")

	return cmd
}

// newRouter mounts:
//
//	GET    /livez           liveness
//	GET    /readyz          readiness (pings Redis)
//	GET    /metrics         Prometheus
//	GET    /keys/{key}      raw cached JSON
//	DELETE /keys/{key}      delete one key
//	POST   /purge?pattern=  delete by glob pattern
func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(a.log)),
	)

	r.Get("/livez", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(health.Checks{
		"redis": redis.Healthcheck(a.client),
	}, health.WithLogger(a.log)))
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))

	r.Group(func(r chi.Router) {
		r.Use(
			middlewares.AccessLog(a.log),
			middlewares.Timeout(requestTimeout),
		)

		r.Get("/keys/*", getKeyHandler(a))
		r.Delete("/keys/*", deleteKeyHandler(a))
		r.Post("/purge", purgeHandler(a))
	})

	return r
}

func getKeyHandler(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := keyParam(w, r)
		if !ok {
			return
		}

		data, ok, err := a.cache.GetRaw(r.Context(), key)
		if err != nil {
			storeError(w, r, a.log, err)
			return
		}
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": errKeyNotFound.Error(), "key": key})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func deleteKeyHandler(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := keyParam(w, r)
		if !ok {
			return
		}

		n, err := a.cache.Delete(r.Context(), key)
		if err != nil {
			storeError(w, r, a.log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

// keyParam returns the decoded key from /keys/*. chi matches on RawPath when
// the path holds escapes such as %2F, leaving the wildcard still encoded.
func keyParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "*")
	if r.URL.RawPath == "" {
		return key, true
	}

	decoded, err := url.PathUnescape(key)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid key encoding"})
		return "", false
	}
	return decoded, true
}

func purgeHandler(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pattern := r.URL.Query().Get("pattern")
		if pattern == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pattern is required"})
			return
		}

		n, err := a.cache.DeleteByPattern(r.Context(), pattern)
		if err != nil {
			storeError(w, r, a.log, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

func storeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.ErrorContext(r.Context(), "store request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "store unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
