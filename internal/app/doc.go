// Package app wires the explorer web application together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. The caller loads configuration and initializes the logger
//	2. NewApplication builds the OpenTelemetry providers and business metrics
//	3. The explorer and health services are created
//	4. The chi router is assembled with its middleware chain
//	5. Start binds the listener and serves in the background
//
// # Usage
//
//	cfg, err := config.Load()
//	logger, err := infrastructure.InitializeLogger(cfg.Logging)
//	application, err := app.NewApplication(cfg, logger)
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests
// within Server.ShutdownTimeout and flushes the telemetry providers.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never
// calls os.Exit.
package app
