package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ricochet-mp/ricochet/pkg/api"
	authproviders "github.com/ricochet-mp/ricochet/pkg/auth/providers"
	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/repositories"
	"github.com/ricochet-mp/ricochet/pkg/version"
)

func main() {
	port := flag.Int("port", 9090, "Port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	localAuth := flag.Bool("local-auth", false, "Use the local auth provider (development only)")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting API server version %s", version.Get())
	ctx := context.Background()

	if *localAuth {
		log.Warn("Using the local auth provider, do not use this in production")
	}
	authProvider, err := authproviders.New(ctx, authproviders.NewProviderOptions{
		Local:             *localAuth,
		FirebaseProjectID: os.Getenv("RICOCHET_FIREBASE_PROJECT_ID"),
		FirebaseAPIKey:    os.Getenv("RICOCHET_FIREBASE_API_KEY"),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	repository, err := newRepository(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(ctx)

	opts := api.NewAPIServerOptions{
		Port:         *port,
		AuthProvider: authProvider,
		Repository:   repository,
	}
	tlsCertFile := os.Getenv("RICOCHET_API_TLS_CERT_FILE")
	tlsKeyFile := os.Getenv("RICOCHET_API_TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		opts.TLS = &api.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	server := api.NewAPIServer(opts)
	go server.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	log.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
}

func newRepository(ctx context.Context) (repositories.Repository, error) {
	connStr := os.Getenv("RICOCHET_DATABASE_URL")
	if connStr == "" {
		connStr = "sqlite://ricochet.db"
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v", err)
	}

	switch u.Scheme {
	case "sqlite":
		return repositories.NewSQLiteRepository(ctx, u.Host, "./migrations/sqlite")
	case "postgresql":
		return repositories.NewPostgresRepository(ctx, u.String(), "./migrations/postgres")
	default:
		return nil, fmt.Errorf("unknown database type %s", u.Scheme)
	}
}
