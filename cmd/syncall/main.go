// syncall runs one sync-all batch per provider and exits. It is meant to be
// triggered by an external scheduler (cron, systemd timer).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/2beens/wearsync/internal"
	"github.com/2beens/wearsync/internal/config"
	"github.com/2beens/wearsync/internal/logging"
	"github.com/2beens/wearsync/internal/wearable"
	"github.com/2beens/wearsync/internal/wearable/registry"
	"github.com/2beens/wearsync/internal/wearable/syncer"

	log "github.com/sirupsen/logrus"
)

type providerResult struct {
	Provider wearable.Provider `json:"provider"`
	Error    string            `json:"error,omitempty"`
	syncer.BatchResult
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	providerFlag := flag.String("provider", "all", "provider to sync [all | fitbit | oura | whoop | strava | spotify]")
	timeout := flag.Duration("timeout", 30*time.Minute, "max duration of the whole run")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "wearsync-syncall",
	})

	selected, err := selectProviders(*providerFlag)
	if err != nil {
		log.Fatalf("%s", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, *timeout)
	defer timeoutCancel()

	stack, err := internal.NewStack(ctx, internal.NewStackParams{
		Config:                  cfg,
		ServiceName:             "syncall",
		Credentials:             registry.CredentialsFromEnv(os.Getenv),
		PostgresPassword:        os.Getenv("WEARSYNC_POSTGRES_PASS"),
		RedisPassword:           os.Getenv("WEARSYNC_REDIS_PASS"),
		TokenKey:                os.Getenv("WEARSYNC_TOKEN_KEY"),
		HoneycombTracingEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
		SkipMigrations:          true,
	})
	if err != nil {
		log.Fatalf("new stack: %s", err)
	}
	defer stack.Close()

	results := runBatches(ctx, stack.Integrations, selected)

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Errorf("marshal results: %s", err)
		return
	}
	fmt.Println(string(out))
	// partial failures are in the output, the exit code stays 0
}

func selectProviders(flagValue string) ([]wearable.Provider, error) {
	flagValue = strings.TrimSpace(strings.ToLower(flagValue))
	if flagValue == "" || flagValue == "all" {
		return wearable.AllProviders, nil
	}
	var selected []wearable.Provider
	for _, name := range strings.Split(flagValue, ",") {
		provider, err := wearable.ParseProvider(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, provider)
	}
	return selected, nil
}

func runBatches(
	ctx context.Context,
	integrations map[wearable.Provider]registry.Entry,
	selected []wearable.Provider,
) []providerResult {
	results := make([]providerResult, 0, len(selected))
	for _, provider := range selected {
		entry, ok := integrations[provider]
		if !ok {
			results = append(results, providerResult{
				Provider: provider,
				Error:    fmt.Sprintf("%s integration not configured", provider),
			})
			continue
		}

		batch, err := entry.Orchestrator.SyncAll(ctx)
		res := providerResult{Provider: provider, BatchResult: batch}
		if err != nil {
			log.Errorf("%s sync-all: %s", provider, err)
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}
