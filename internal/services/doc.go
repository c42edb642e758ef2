// Package services holds the business logic between the HTTP handlers and
// the tabular, stats and charts packages.
//
// ExplorerService runs one explore request: it buffers the uploaded files,
// loads the merged table through a TableCache keyed by the blake2b digest
// of the inputs, and builds the statistics and rendered charts the page
// toggles ask for. Every run records a span and the explore metrics.
//
// HealthService backs the health, readiness, liveness and version routes.
//
// Services take their logger, tracer and metrics by injection:
//
//	explorer := services.NewExplorerService(cfg.Explorer, providers.Tracer, metrics, logger)
//	result, err := explorer.Explore(ctx, services.ExploreRequest{
//	    Files:   files,
//	    Columns: []string{"x", "z"},
//	    Options: services.ExploreOptions{ShowStats: true, ShowPlots: true},
//	})
package services
