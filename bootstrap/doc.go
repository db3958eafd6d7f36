// Package bootstrap runs a finite scribe task with a uniform lifecycle:
// validated config, a configured logger, start hooks, signal-driven
// cancellation and stop hooks bounded by a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(setupTelemetry)
//	app.OnStop(closeClient)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return transcribeAll(ctx)
//	})
package bootstrap
