// Package health runs dependency checks and serves liveness and readiness probes.
//
// A check is any func(context.Context) error. Checks run in parallel under one
// shared timeout:
//
//	resp, err := health.Run(ctx, health.Checks{
//	    "redis": redis.Healthcheck(client),
//	    "cache": health.FromPinger(c),
//	}, health.WithTimeout(2*time.Second))
//	if errors.Is(err, health.ErrCheckFailed) {
//	    // resp.Checks["redis"].Error explains why
//	}
//
// The same checks back the HTTP probes:
//
//	r.Get("/livez", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(checks))
//
// Both handlers answer plain "OK" by default and JSON when the request sends
// Accept: application/json or ?format=json.
package health
