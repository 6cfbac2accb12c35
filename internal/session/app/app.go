// Package app wires the session core together for an embedding shell: it
// picks the blob and directory backends from configuration and hands back
// ready-to-call services.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledgerline/sessionkit/internal/session/directory"
	directorysqlite "github.com/ledgerline/sessionkit/internal/session/directory/drivers/sqlite"
	"github.com/ledgerline/sessionkit/internal/session/service"
	"github.com/ledgerline/sessionkit/internal/session/store"
	"github.com/ledgerline/sessionkit/internal/session/store/drivers/memory"
	storeredis "github.com/ledgerline/sessionkit/internal/session/store/drivers/redis"
	storesqlite "github.com/ledgerline/sessionkit/internal/session/store/drivers/sqlite"
	"github.com/ledgerline/sessionkit/pkg/slogx"
)

// Version is stamped at build time by the embedding shell.
var Version = "dev"

type App struct {
	Config  Config
	Log     *slog.Logger
	Session *service.SessionService
	Profile *service.ProfileService

	closers []io.Closer
}

// New builds the session core from configuration. The caller owns Close.
func New(ctx context.Context, cfg Config) (*App, error) {
	log := slogx.New(slogx.Config{
		Service: "sessionkit",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	a := &App{Config: cfg, Log: log}

	blobs, err := a.buildBlobs(ctx, cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	dir, err := a.buildDirectory(cfg)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if cfg.ThrottleLookups {
		dir = directory.RateLimited(dir, directory.StrictLimit)
	}

	var codec store.Codec = store.JSONCodec{}
	if cfg.SigningKey != "" {
		codec = store.SignedCodec{Key: []byte(cfg.SigningKey)}
	}

	a.Session = &service.SessionService{
		Directory: dir,
		Blobs:     blobs,
		Codec:     codec,
		BlobKey:   cfg.BlobKey,
		Latency:   cfg.Latency,
	}
	a.Profile = &service.ProfileService{
		Session: a.Session,
		Latency: cfg.Latency,
	}

	log.Info("session core ready",
		slog.String("blob_backend", cfg.BlobBackend),
		slog.String("directory_backend", cfg.DirectoryBackend),
		slog.Bool("signed_blobs", cfg.SigningKey != ""),
	)
	return a, nil
}

func (a *App) buildBlobs(ctx context.Context, cfg Config) (store.Blobs, error) {
	switch cfg.BlobBackend {
	case BackendMemory:
		return memory.NewStore(), nil

	case BackendSQLite:
		s, err := storesqlite.NewStore(cfg.BlobFile)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		a.closers = append(a.closers, s)
		if err := s.ApplyMigrations(); err != nil {
			return nil, fmt.Errorf("migrate blob store: %w", err)
		}
		return s, nil

	case BackendRedis:
		s, err := storeredis.NewStoreFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		a.closers = append(a.closers, s)
		return s, nil

	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

func (a *App) buildDirectory(cfg Config) (directory.Directory, error) {
	switch cfg.DirectoryBackend {
	case BackendMemory:
		d := directory.NewMemory()
		if err := directory.SeedDefaults(d); err != nil {
			return nil, fmt.Errorf("seed directory: %w", err)
		}
		return d, nil

	case BackendSQLite:
		d, err := directorysqlite.NewStore(cfg.DirectoryFile)
		if err != nil {
			return nil, fmt.Errorf("open directory: %w", err)
		}
		a.closers = append(a.closers, d)
		if err := d.ApplyMigrations(); err != nil {
			return nil, fmt.Errorf("migrate directory: %w", err)
		}
		return d, nil

	default:
		return nil, fmt.Errorf("unknown directory backend %q", cfg.DirectoryBackend)
	}
}

// Close releases the backing stores.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
