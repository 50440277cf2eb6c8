package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/admitdesk/admitdesk/config"
	"github.com/admitdesk/admitdesk/pkg/auth"
	"github.com/admitdesk/admitdesk/pkg/filestore"
	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server"
	"github.com/admitdesk/admitdesk/pkg/store/memory"
	"github.com/admitdesk/admitdesk/pkg/store/postgres"
	"github.com/admitdesk/admitdesk/pkg/telemetry"
)

const (
	ErrStoreTypeNotSet   = "store.type must be set"
	ErrPostgresDSNNotSet = "store.postgres.dsn must be set"

	shutdownTimeout = 10 * time.Second
	// tokens printed by --generate-token do not expire
	generatedTokenTTL = 0
)

// run is the entrypoint for the admitdesk server
func run() {
	cfg := loadConfig()

	handleCLIOptions(cfg)

	log.Infof("Starting admitdesk server version %s", config.VersionString)

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %s", err)
	}

	appState := NewAppState(cfg)
	srv := server.Create(appState)
	setupSignalHandler(appState, srv, shutdownTracing)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState from the config file / ENV, opening the configured
// store and the upload directory.
func NewAppState(cfg *config.Config) *models.AppState {
	appState := &models.AppState{
		Config: cfg,
	}

	initializeStore(appState)
	initializeFileStore(appState)

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if generateKey {
		fmt.Println(auth.GenerateJWT(cfg, generatedTokenTTL))
		os.Exit(0)
	}
	if dumpConfig {
		redacted := *cfg
		if redacted.Auth.Secret != "" {
			redacted.Auth.Secret = "********"
		}
		out, err := yaml.Marshal(&redacted)
		if err != nil {
			log.Fatalf("Failed to dump config: %s", err)
		}
		fmt.Print(string(out))
		os.Exit(0)
	}
}

// initializeStore wires every record store to the backend named by store.type
func initializeStore(appState *models.AppState) {
	cfg := appState.Config
	if cfg.Store.Type == "" {
		log.Fatal(ErrStoreTypeNotSet)
	}

	switch cfg.Store.Type {
	case config.StoreTypePostgres:
		if cfg.Store.Postgres.DSN == "" {
			log.Fatal(ErrPostgresDSNNotSet)
		}
		db, err := postgres.NewPostgresConn(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %s", err)
		}
		if err := postgres.CreateSchema(context.Background(), db); err != nil {
			log.Fatalf("Failed to create schema: %s", err)
		}
		appState.KnowledgeStore = postgres.NewKnowledgeDAO(db)
		appState.AdmissionStore = postgres.NewAdmissionDAO(db)
		appState.DocumentStore = postgres.NewDocumentDAO(db)
		appState.PaymentStore = postgres.NewPaymentDAO(db)
		appState.GuardianStore = postgres.NewGuardianDAO(db)
		appState.EntryTestStore = postgres.NewEntryTestDAO(db)
		appState.StoreCloser = db
	case config.StoreTypeMemory:
		db := memory.NewDB()
		appState.KnowledgeStore = memory.NewKnowledgeStore(db)
		appState.AdmissionStore = memory.NewAdmissionStore(db)
		appState.DocumentStore = memory.NewDocumentStore(db)
		appState.PaymentStore = memory.NewPaymentStore(db)
		appState.GuardianStore = memory.NewGuardianStore(db)
		appState.EntryTestStore = memory.NewEntryTestStore(db)
		appState.StoreCloser = db
	default:
		log.Fatalf("store.type (%s) is not supported", cfg.Store.Type)
	}

	log.Info("Using store: ", cfg.Store.Type)
}

func initializeFileStore(appState *models.AppState) {
	fileStore, err := filestore.NewOsFileStore(appState.Config.Uploads.Path)
	if err != nil {
		log.Fatal(err)
	}
	appState.FileStore = fileStore
	log.Info("Storing uploads in: ", appState.Config.Uploads.Path)
}

func closeStore(appState *models.AppState) {
	if appState.StoreCloser == nil {
		return
	}
	if err := appState.StoreCloser.Close(); err != nil {
		log.Errorf("Error closing store connection: %v", err)
	}
}

// setupSignalHandler drains the server, flushes traces and closes the store on termination
func setupSignalHandler(
	appState *models.AppState,
	srv *http.Server,
	shutdownTracing telemetry.ShutdownFunc,
) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		log.Info("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Errorf("Error flushing traces: %v", err)
		}
		closeStore(appState)
		os.Exit(0)
	}()
}
