package storage

import (
	"fmt"
	"log/slog"
	"sync"

	"presence-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

// Handle owns the BadgerDB instance shared by the repositories.
// Until Open succeeds, and again after Close, DB returns errors.ErrUnavailable
// so callers fail fast instead of dereferencing a missing database.
type Handle struct {
	mu  sync.RWMutex
	db  *badger.DB
	log *slog.Logger
}

func NewHandle(log *slog.Logger) *Handle {
	return &Handle{log: log}
}

// Open opens the database with the given options and marks the handle ready.
func (h *Handle) Open(options badger.Options) error {
	db, err := badger.Open(options)
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db != nil {
		_ = db.Close()
		return fmt.Errorf("database already opened")
	}
	h.db = db
	h.log.Info("BadgerDB ready", "dir", options.Dir)
	return nil
}

// DB returns the opened database or errors.ErrUnavailable.
func (h *Handle) DB() (*badger.DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.db == nil || h.db.IsClosed() {
		return nil, errors.ErrUnavailable
	}
	return h.db, nil
}

func (h *Handle) Ready() bool {
	_, err := h.DB()
	return err == nil
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	h.log.Info("Closing BadgerDB...")
	err := h.db.Close()
	h.db = nil
	return err
}

// Options returns the badger options used by the server for a directory.
func Options(dir string) badger.Options {
	return badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
}
