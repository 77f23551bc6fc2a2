package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/lingomix/internal/cache"
	"horse.fit/lingomix/internal/cli"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Second, "Cache store ping timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, logger, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc, err := newServices(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer svc.Close()

	if err := svc.cache.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("health check failed")
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}

	fmt.Printf("ok cache=%s providers=%s pairs=%d\n",
		svc.cache.Stats().Backend,
		strings.Join(svc.registry.ProviderNames(), ","),
		len(svc.languages.Pairs()),
	)
	if pg, ok := svc.store.(*cache.PostgresStore); ok {
		rows, err := pg.Count(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Health check failed: count cached translations: %v\n", err)
			return 1
		}
		fmt.Printf("postgres translation_cache rows=%d\n", rows)
	}
	return 0
}
