// Package httpserver runs the service's HTTP listener with graceful
// shutdown and provides liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server", logger.Error(err))
//	}
package httpserver
