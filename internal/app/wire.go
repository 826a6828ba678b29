// Package app wires the configured slot backend and the account manager
// for the command-line and HTTP shells.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/AccountKeeper/internal/client/storage"
	"github.com/atinyakov/AccountKeeper/internal/config"
	"github.com/atinyakov/AccountKeeper/internal/db"
	"github.com/atinyakov/AccountKeeper/internal/repository"
	"github.com/atinyakov/AccountKeeper/internal/service"
)

// Wire bundles the slot backend and the loaded account manager.
type Wire struct {
	Slot     service.SlotRepository
	Accounts *service.AccountManager

	closers []func() error
}

// OpenSlot connects the backend selected in opts.
func OpenSlot(opts *config.Options) (service.SlotRepository, func() error, error) {
	switch opts.Backend {
	case config.BackendFile:
		return storage.New(opts.StoragePath), nopClose, nil
	case config.BackendMemory:
		return repository.NewMemorySlotRepository(), nopClose, nil
	case config.BackendPostgres:
		conn, err := db.InitPostgres(opts.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresSlotRepository(conn), conn.Close, nil
	case config.BackendRedis:
		client, err := repository.NewRedisClient(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisSlotRepository(client, opts.RedisPrefix), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// NewWire opens the slot, builds the account manager and loads the stored collection.
func NewWire(ctx context.Context, opts *config.Options, log *zap.Logger) (*Wire, error) {
	slot, closeSlot, err := OpenSlot(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", opts.Backend, err)
	}

	accounts := service.NewAccountManager(slot, opts.Slot, log)
	if err := accounts.Load(ctx); err != nil {
		_ = closeSlot()
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	log.Info("storage ready", zap.String("backend", opts.Backend), zap.String("slot", opts.Slot))

	return &Wire{Slot: slot, Accounts: accounts, closers: []func() error{closeSlot}}, nil
}

// Close releases the backend connections.
func (w *Wire) Close() error {
	var firstErr error
	for _, c := range w.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func nopClose() error { return nil }
