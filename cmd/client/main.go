package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/avelez/repairdesk/internal/client/api"
	"github.com/avelez/repairdesk/internal/client/cli"
	"github.com/avelez/repairdesk/internal/client/config"
	"github.com/avelez/repairdesk/internal/client/faults"
	"github.com/avelez/repairdesk/internal/client/iocli"
	"github.com/avelez/repairdesk/internal/client/notify"
	"github.com/avelez/repairdesk/internal/client/session"
	"github.com/avelez/repairdesk/internal/client/storage"
	"github.com/avelez/repairdesk/internal/client/storage/boltdb"
	"github.com/avelez/repairdesk/internal/client/storage/sqlite"
	"github.com/avelez/repairdesk/internal/logging"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "", "Server URL")
	dbPath := flag.String("db", "", "Path to local database")
	storageName := flag.String("storage", "", "Local storage backend: bolt or sqlite")
	configPath := flag.String("config", "", "Path to config file")
	password := flag.String("password", "", "Password (not recommended, use env var or file)")
	passwordFile := flag.String("password-file", "", "Path to file containing the password")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// flags win over config file and environment
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *storageName != "" {
		cfg.Storage = *storageName
	}

	log := logging.NewSlogLogger(newSlog(cfg.LogLevel))
	ctx := context.Background()

	kv, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error(ctx, "failed to close local database", "error", err)
		}
	}()

	// the transport needs the session store and fault handler, which in
	// turn need the API client; break the loop by filling the transport's
	// fields after construction
	transport := &api.AuthTransport{}
	apiClient := api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithTransport(transport),
	)

	sessions := session.NewStore(apiClient, kv, log)

	sink := &notify.ConsoleSink{Out: os.Stderr}
	handler := faults.NewHandler(sessions, sink, log)
	defer handler.Close()

	// the generic toast service keeps its own, shorter dedup window than
	// the fault handler's burst window
	ui := notify.NewService(sink, cfg.NotifyWindow)
	defer ui.Close()

	transport.Sessions = sessions
	transport.Faults = handler

	app := cli.New(iocli.NewStdio(), sessions, apiClient, handler, ui, cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	if err := app.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage()
		}
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return sqlite.New(ctx, cfg.DBPath)
	default:
		return boltdb.New(ctx, cfg.DBPath)
	}
}

func newSlog(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("RepairDesk Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
