package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/wearsync/internal"
	"github.com/2beens/wearsync/internal/config"
	"github.com/2beens/wearsync/internal/logging"
	"github.com/2beens/wearsync/internal/wearable/registry"
	"github.com/2beens/wearsync/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "wearsync-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	postgresPassword := os.Getenv("WEARSYNC_POSTGRES_PASS")
	redisPassword := os.Getenv("WEARSYNC_REDIS_PASS")
	if redisPassword == "" {
		log.Errorf("redis password not set. use WEARSYNC_REDIS_PASS")
	}

	tokenKey := os.Getenv("WEARSYNC_TOKEN_KEY")
	if tokenKey == "" {
		log.Errorf("token key not set. use WEARSYNC_TOKEN_KEY (hex, 32 bytes)")
	}

	syncAllSecretHash := os.Getenv("WEARSYNC_SYNC_ALL_SECRET_HASH")
	if syncAllSecretHash == "" {
		log.Errorf("sync-all secret hash not set. use WEARSYNC_SYNC_ALL_SECRET_HASH")
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stack, err := internal.NewStack(ctx, internal.NewStackParams{
		Config:                  cfg,
		ServiceName:             "service",
		Credentials:             registry.CredentialsFromEnv(os.Getenv),
		PostgresPassword:        postgresPassword,
		RedisPassword:           redisPassword,
		TokenKey:                tokenKey,
		HoneycombTracingEnabled: honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new stack: %s", err)
	}

	server := internal.NewServer(internal.NewServerParams{
		Stack:             stack,
		SyncAllSecretHash: syncAllSecretHash,
	})
	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
