package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horse.fit/lingomix/internal/cache"
	"horse.fit/lingomix/internal/cli"
	"horse.fit/lingomix/internal/httpapi"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 60*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	janitorInterval := fs.Duration("janitor-interval", 10*time.Minute, "How often expired cache entries are purged")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}
	if *janitorInterval <= 0 {
		fmt.Fprintln(os.Stderr, "--janitor-interval must be > 0")
		return 2
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer setupCancel()

	svc, err := newServices(setupCtx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("serve failed to build pipeline")
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	go runJanitor(ctx, svc, *janitorInterval)

	srv := httpapi.NewServer(svc.mixer, svc.cache, svc.languages, logger, httpapi.Options{
		Host:               *host,
		Port:               *port,
		ReadTimeout:        *readTimeout,
		WriteTimeout:       *writeTimeout,
		ShutdownTimeout:    *shutdownTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOriginsList(),
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}

// runJanitor purges expired entries at startup and then every interval
// until ctx ends.
func runJanitor(ctx context.Context, svc *services, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		purgeExpired(ctx, svc)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func purgeExpired(ctx context.Context, svc *services) {
	purged := svc.cache.Purge()
	event := svc.logger.Debug().Int("memory_entries", purged)

	if pg, ok := svc.store.(*cache.PostgresStore); ok {
		rows, err := pg.Prune(ctx)
		if err != nil {
			svc.logger.Warn().Err(err).Msg("prune expired translations failed")
		}
		event = event.Int64("postgres_rows", rows)
	}
	event.Msg("purged expired translations")
}
