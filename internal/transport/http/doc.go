// Package http implements the HTTP handlers of the explorer. Handlers are
// a thin layer over the services package: they parse and validate the
// request, call the service and render the response.
//
// # Routes
//
//	GET  /                        explorer page
//	POST /api/explore             JSON render model for one interaction
//	POST /api/explore/stats.csv   statistics as a CSV attachment
//	POST /api/logs                client-side error reports
//	GET  /api/health[/ready|/live]
//	GET  /api/version
//
// The explore routes take one multipart form:
//
//	files            repeated file parts, one per CSV upload
//	columns          repeated, in selection order
//	show_raw         boolean toggles: "true", "false", "on", "1", ...
//	show_stats
//	show_plots
//	show_subplots    only applies with show_plots
//	show_per_column  only applies with show_plots
//
// # Error Handling
//
// Failures are rendered as RFC 7807 problem details by
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/unknown-column",
//	    "title": "Unknown Column",
//	    "status": 422,
//	    "detail": "column \"q\" not found",
//	    "instance": "/api/explore",
//	    "column": "q",
//	    "trace_id": "..."
//	}
//
// # Testing
//
// Handlers depend on the ExplorerService and HealthService interfaces so
// tests can substitute testify mocks and drive them with httptest.
package http
