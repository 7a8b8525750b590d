// Command notifcenter runs the background notification sync daemon:
// it fetches the user's feed from the notification service, keeps it
// fresh with incremental polls, and pushes locally-queued
// read/unread/shown marks back to the service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nhle/notification-center/internal/credential"
	"github.com/nhle/notification-center/internal/journal"
	"github.com/nhle/notification-center/internal/logger"
	"github.com/nhle/notification-center/internal/model"
	"github.com/nhle/notification-center/internal/remote"
	"github.com/nhle/notification-center/internal/state"
	"github.com/nhle/notification-center/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notifcenter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	username := flag.String("username", "", "override the configured username")
	noJournal := flag.Bool("no-journal", false, "disable the pending-mark journal")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *username != "" {
		cfg.Remote.Username = *username
	}
	if cfg.Remote.Username == "" {
		return fmt.Errorf("no username configured; set remote.username in %s or pass -username", *configPath)
	}
	if cfg.Remote.BaseURL == "" {
		return fmt.Errorf("no remote base URL configured; set remote.base_url in %s", *configPath)
	}

	log := logger.New(logger.FromConfig(cfg.Log.Level, cfg.Log.Format))

	// The API token lives in the system keyring; the environment
	// variable is an escape hatch for headless machines.
	token := os.Getenv("NOTIFCENTER_TOKEN")
	if token == "" {
		token, err = credential.Get(credential.TokenKey)
		if err != nil {
			log.Warn("no API token found; connecting unauthenticated", "error", err)
		}
	}

	var jnl *journal.Journal
	if !*noJournal && cfg.Sync.JournalPath != "" {
		jnl, err = journal.Open(cfg.Sync.JournalPath)
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer jnl.Close()
	}

	// Logout: SIGINT/SIGTERM cancels the session context, which
	// terminates the supervisor through the poll race.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := state.New(cfg.Remote.Username, jnl, log)
	if err := st.Restore(ctx); err != nil {
		return fmt.Errorf("restoring pending marks: %w", err)
	}

	client := remote.NewClient(
		cfg.Remote.BaseURL,
		token,
		time.Duration(cfg.Remote.TimeoutSec)*time.Second,
	)

	controller := sync.NewController(st, client, log, sync.Options{
		PollInterval: time.Duration(cfg.Sync.PollIntervalSec) * time.Second,
		Types:        cfg.Sync.Types,
	})

	log.Info("starting sync",
		"username", cfg.Remote.Username,
		"remote", cfg.Remote.BaseURL,
		"poll_interval_sec", cfg.Sync.PollIntervalSec)

	// The initial full fetch kicks the supervisor out of its first
	// awaiting-data state.
	go controller.Fetcher().FetchAll(ctx)

	controller.Run(ctx)

	log.Info("stopped")
	return nil
}
