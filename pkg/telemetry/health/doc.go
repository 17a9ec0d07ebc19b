// Package health provides liveness and readiness probes for the analysis
// service.
//
// Liveness only reports that the process answers. Readiness runs every
// registered check concurrently, each under its own timeout, and reports
// 503 if any of them fails:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("grammar", health.GrammarCheck(registry, "1.5.3"))
//	checker.RegisterCheck("sessions", health.CapacityCheck(store.Len, 1000))
//
//	r.Get("/health", checker.LivenessHandler())
//	r.Get("/ready", checker.ReadinessHandler())
package health
