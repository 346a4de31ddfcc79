package main

import (
	"context"
	"log/slog"

	githubadapter "github.com/pullherald/pullherald/internal/adapter/driven/github"
	slackadapter "github.com/pullherald/pullherald/internal/adapter/driven/slack"
	sqliteadapter "github.com/pullherald/pullherald/internal/adapter/driven/sqlite"
	"github.com/pullherald/pullherald/internal/application"
	"github.com/pullherald/pullherald/internal/config"
)

// app is the composition root: configuration, storage, adapters, and the
// application services wired together.
type app struct {
	cfg    *config.Config
	db     *sqliteadapter.DB
	ledger *application.FairnessLedger
	poll   *application.PollService
}

// buildApp loads configuration, opens the database, runs migrations, and
// wires every adapter into the poll service. Configuration problems are
// fatal here, before any cycle runs.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	botFile, err := config.LoadBotFile(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	slog.Info("config loaded",
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"repositories", len(botFile.Repositories),
		"channels", len(botFile.Channels),
		"people", len(botFile.People),
	)

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	chatClient, err := slackadapter.NewClient(ctx, cfg.SlackToken)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	notableStore := sqliteadapter.NewNotableRepo(db)
	ledgerStore := sqliteadapter.NewLedgerRepo(db)
	heartbeatStore := sqliteadapter.NewHeartbeatRepo(db)

	ledger, err := application.NewFairnessLedger(ctx, ledgerStore, botFile.TrackedPeople(), cfg.CreditPolicy)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	normalizer := application.NewNormalizer(ghClient, cfg.RequiredApprovals)
	reconciler := application.NewMessageReconciler(chatClient, cfg.RecencyWindow)

	poll := application.NewPollService(
		normalizer,
		ledger,
		reconciler,
		heartbeatStore,
		notableStore,
		botFile.Repos(),
		botFile.OutputChannels(),
		botFile.TrackedPeople(),
		cfg.PollInterval,
	)

	return &app{
		cfg:    cfg,
		db:     db,
		ledger: ledger,
		poll:   poll,
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
