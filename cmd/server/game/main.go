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

	authproviders "github.com/ricochet-mp/ricochet/pkg/auth/providers"
	"github.com/ricochet-mp/ricochet/pkg/game"
	"github.com/ricochet-mp/ricochet/pkg/log"
	"github.com/ricochet-mp/ricochet/pkg/network"
	"github.com/ricochet-mp/ricochet/pkg/queue"
	"github.com/ricochet-mp/ricochet/pkg/repositories"
	"github.com/ricochet-mp/ricochet/pkg/state"
	"github.com/ricochet-mp/ricochet/pkg/version"
	"github.com/ricochet-mp/ricochet/pkg/workers"
)

func main() {
	tcpPort := flag.Int("tcp-port", 8888, "TCP port to listen on")
	udpPort := flag.Int("udp-port", 8889, "UDP port to listen on")
	wsPort := flag.Int("ws-port", 8890, "WebSocket port to listen on")
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

	log.Info("Starting game server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	authProvider, err := newAuthProvider(ctx, *localAuth)
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}

	repository, err := newRepository(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(ctx)

	clientManager := network.NewClientManager()
	clientMessageQueue := queue.NewInMemoryQueue(10000)

	networkManagerOpts := network.NewNetworkManagerOptions{
		AuthProvider:  authProvider,
		ClientManager: clientManager,
		MessageQueue:  clientMessageQueue,
		TCPPort:       *tcpPort,
		UDPPort:       *udpPort,
		WSPort:        *wsPort,
	}
	tlsCertFile := os.Getenv("RICOCHET_WS_TLS_CERT_FILE")
	tlsKeyFile := os.Getenv("RICOCHET_WS_TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		networkManagerOpts.WSServerTLS = &network.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	networkManager := network.NewNetworkManager(networkManagerOpts)
	networkManager.Start(ctx)

	serverEventQueue := queue.NewInMemoryQueue(1000)

	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ClientEventChan:  clientManager.GetClientEventChan(),
		Repository:       repository,
		ServerEventQueue: serverEventQueue,
	})
	go connectionEventWorker.Start(ctx)

	stateManager := state.NewInMemoryStateManager()

	savePlayerStateChan := make(chan workers.SavePlayerStateRequest, 100)
	saveGameStateWorker := workers.NewSaveGameStateWorker(workers.NewSaveGameStateWorkerOptions{
		Repository:          repository,
		SavePlayerStateChan: savePlayerStateChan,
		StateManager:        stateManager,
		Interval:            10 * time.Second,
	})
	go saveGameStateWorker.Start(ctx)

	serverMessageChan := make(chan workers.ServerMessage, 100)
	broadcastMessageWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		NetworkManager:    networkManager,
		ServerMessageChan: serverMessageChan,
	})
	go broadcastMessageWorker.Start(ctx)

	gameLoopInterval := 50 * time.Millisecond // 20 ticks per second
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ClientManager:       clientManager,
		ClientMessageQueue:  clientMessageQueue,
		ServerEventQueue:    serverEventQueue,
		StateManager:        stateManager,
		ServerMessageChan:   serverMessageChan,
		SavePlayerStateChan: savePlayerStateChan,
		GameLoopInterval:    gameLoopInterval,
	})

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start game manager: %v", err))
	}
}

func newAuthProvider(ctx context.Context, localAuth bool) (authproviders.AuthProvider, error) {
	if localAuth {
		log.Warn("Using the local auth provider, do not use this in production")
	}
	return authproviders.New(ctx, authproviders.NewProviderOptions{
		Local:             localAuth,
		FirebaseProjectID: os.Getenv("RICOCHET_FIREBASE_PROJECT_ID"),
		FirebaseAPIKey:    os.Getenv("RICOCHET_FIREBASE_API_KEY"),
	})
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
