package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/androiddevnotesforks/walleria/internal/auth"
	"github.com/androiddevnotesforks/walleria/internal/config"
	"github.com/androiddevnotesforks/walleria/internal/domain"
	"github.com/androiddevnotesforks/walleria/internal/download"
	"github.com/androiddevnotesforks/walleria/internal/logging"
	"github.com/androiddevnotesforks/walleria/internal/session"
	"github.com/androiddevnotesforks/walleria/internal/store"
	"github.com/androiddevnotesforks/walleria/internal/unsplash"
)

// app holds the services shared by every command. Its scope outlives any single
// screen or request and is cancelled by Close.
type app struct {
	cfg       config.Config
	store     *store.Store
	client    *unsplash.Client
	session   *session.Manager
	downloads *download.Manager
	receiver  *download.Receiver

	scope  context.Context
	cancel context.CancelFunc
}

// openApp loads the configuration and opens the database. With logToFile set,
// logging goes to the configured log file so it never draws over the terminal UI.
func openApp(parent context.Context, logToFile bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logToFile {
		if err := logging.Init(cfg.Log.File, cfg.Log.Level); err != nil {
			return nil, err
		}
	}

	st, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	if parent == nil {
		parent = context.Background()
	}
	scope, cancel := context.WithCancel(parent)

	client := unsplash.New(unsplash.Options{
		BaseURL:         cfg.API.BaseURL,
		AuthURL:         cfg.API.AuthURL,
		AccessKey:       cfg.API.AccessKey,
		SecretKey:       cfg.API.SecretKey,
		RedirectURI:     cfg.API.RedirectURI,
		Timeout:         cfg.API.Timeout,
		RequestsPerHour: cfg.API.RequestsPerHour,
		Credentials:     auth.Default(st, cfg.API.AccessKey),
	})

	a := &app{
		cfg:     cfg,
		store:   st,
		client:  client,
		session: session.New(scope, client, st, nil),
		downloads: download.NewManager(scope, st, download.Options{
			Dir:         cfg.Downloads.Dir,
			Quality:     domain.PhotoQuality(cfg.Downloads.Quality),
			Concurrency: cfg.Downloads.Concurrency,
		}),
		receiver: download.NewReceiver(scope, client, st),
		scope:    scope,
		cancel:   cancel,
	}
	logging.Debug("app opened", "db", cfg.Storage.DBPath, "downloads", cfg.Downloads.Dir)
	return a, nil
}

// startReceiver starts reporting completed downloads and returns a function that
// stops it.
func (a *app) startReceiver() (stop func() error) {
	ctx, cancel := context.WithCancel(a.scope)
	done := make(chan error, 1)
	go func() { done <- a.receiver.Run(ctx, a.downloads.Completions()) }()
	return func() error {
		cancel()
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// finishDownloads waits for transfers in flight, then reports every completion
// still queued.
func (a *app) finishDownloads(stopReceiver func() error) error {
	a.downloads.Wait()
	if err := stopReceiver(); err != nil {
		return fmt.Errorf("download receiver: %w", err)
	}
	return a.receiver.Drain(a.scope, a.downloads.Completions())
}

// Close waits for background session saves and releases resources.
func (a *app) Close() {
	a.session.Wait()
	a.cancel()
	if err := a.store.Close(); err != nil {
		logging.Warn("failed to close database", "err", err)
	}
}
