package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	errMissingDirectory = errors.New("store directory is required")
	errMissingName      = errors.New("store name is required")
	errInvalidVersion   = errors.New("store version is not declared by the schema")
	errNotOpen          = errors.New("store is not open")
	errUnknownName      = errors.New("unknown collection")
)

// Options describe where a store lives and which schema version it must expose.
type Options struct {
	Dir     string
	Name    string
	Version int
	Schema  Schema
	Logger  *zap.Logger
	Clock   func() time.Time
}

// Store is a versioned multi-collection record store backed by a single SQLite file.
// Every exported operation runs in its own transaction.
type Store struct {
	mu          sync.RWMutex
	db          *gorm.DB
	name        string
	path        string
	version     int
	collections map[string]CollectionDefinition
	clock       func() time.Time
	logger      *zap.Logger
}

// Open opens or creates <Dir>/<Name>.db and brings it to the requested schema version.
func Open(ctx context.Context, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, newError(opOpen, "missing_directory", ErrStorageUnavailable, errMissingDirectory)
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, newError(opOpen, "missing_name", ErrStorageUnavailable, errMissingName)
	}
	if opts.Version < 1 || opts.Version > opts.Schema.Latest() {
		return nil, newError(opOpen, "invalid_version", ErrStorageUnavailable,
			fmt.Errorf("%w: %d", errInvalidVersion, opts.Version))
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		logger.Error("store directory unavailable", zap.String("dir", dir), zap.Error(err))
		return nil, newError(opOpen, "directory_unavailable", ErrStorageUnavailable, err)
	}
	path := filepath.Join(dir, name+".db")

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("store open failed", zap.String("path", path), zap.Error(err))
		return nil, newError(opOpen, "open_failed", ErrStorageUnavailable, err)
	}
	db = db.WithContext(context.WithoutCancel(ctx))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, newError(opOpen, "open_failed", ErrStorageUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = sqlDB.Close()
		logger.Error("store pragmas failed", zap.String("path", path), zap.Error(err))
		return nil, newError(opOpen, "pragmas_failed", ErrStorageUnavailable, err)
	}

	previousVersion, err := applySchema(db, name, opts.Schema, opts.Version, clock(), logger)
	if err != nil {
		_ = sqlDB.Close()
		logger.Error("store schema upgrade failed",
			zap.String("path", path),
			zap.Int("stored_version", previousVersion),
			zap.Int("requested_version", opts.Version),
			zap.Error(err))
		return nil, newError(opOpen, "upgrade_failed", ErrStorageUnavailable, err)
	}

	collections := make(map[string]CollectionDefinition)
	for _, definition := range opts.Schema.CollectionsAt(opts.Version) {
		collections[definition.Name] = definition
	}

	logger.Info("store opened",
		zap.String("path", path),
		zap.Int("version", opts.Version),
		zap.Int("collections", len(collections)))

	return &Store{
		db:          db,
		name:        name,
		path:        path,
		version:     opts.Version,
		collections: collections,
		clock:       clock,
		logger:      logger,
	}, nil
}

// applyPragmas sets the journal and locking behaviour for the single store connection.
func applyPragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close releases the database handle. Operations issued afterwards fail with ErrCollectionUnavailable.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Name returns the store name the schema ledger is keyed by.
func (s *Store) Name() string {
	return s.name
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Version returns the schema version the store was opened at.
func (s *Store) Version() int {
	return s.version
}

// Collections returns the collection names available at the open version, sorted.
func (s *Store) Collections() []string {
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return zap.NewNop()
	}
	return s.logger
}

// session returns a handle for one operation. Caller values pass through, cancellation does not:
// an issued operation always runs to completion or failure.
func (s *Store) session(ctx context.Context, operation, collection string) (*gorm.DB, CollectionDefinition, error) {
	if s == nil || s.db == nil {
		return nil, CollectionDefinition{}, newError(operation, "not_open", ErrCollectionUnavailable, errNotOpen)
	}
	definition, ok := s.collections[collection]
	if !ok {
		return nil, CollectionDefinition{}, newError(operation, "unknown_collection", ErrCollectionUnavailable,
			fmt.Errorf("%w: %q", errUnknownName, collection))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.db.WithContext(context.WithoutCancel(ctx)), definition, nil
}

func (s *Store) logError(operation, reason, collection string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
		zap.String("collection", collection),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("store operation failed", attrs...)
}
