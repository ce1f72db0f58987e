// Package health serves liveness and readiness probes.
//
// LivenessHandler always answers OK while the process runs. ReadinessHandler
// runs a set of named checks in parallel and answers 503 when a required
// check fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "storage": health.Optional(storage.Healthcheck(svc)),
//	    "redis":   redis.Healthcheck(client),
//	}))
//
// Optional checks report "degraded" on failure without failing readiness,
// which suits a storage provider that may be unconfigured in development.
//
// Responses are plain text by default. Send Accept: application/json or
// ?format=json for the per-check breakdown:
//
//	{
//	  "status": "healthy",
//	  "checks": {
//	    "redis":   {"status": "healthy"},
//	    "storage": {"status": "degraded", "error": "storage: healthcheck failed"}
//	  }
//	}
package health
