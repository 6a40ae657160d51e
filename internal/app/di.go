// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/magentadb/internal/config"
	"github.com/allisson/magentadb/internal/persist"
	"github.com/allisson/magentadb/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	store  *store.Store

	// One-time initialization guards for thread-safety
	loggerInit sync.Once
	storeInit  sync.Once
	storeErr   error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Store returns the document store, opening it from config.DatabasePath (or
// creating a fresh one with a new master key if the path does not yet
// exist) on first access.
func (c *Container) Store() (*store.Store, error) {
	c.storeInit.Do(func() {
		c.store, c.storeErr = persist.OpenStore(c.config.DatabasePath)
	})
	if c.storeErr != nil {
		return nil, c.storeErr
	}
	return c.store, nil
}

// Shutdown wipes the in-memory master key. Any final mutation has already
// been persisted synchronously by the store's FileSink, so no explicit save
// is required here.
func (c *Container) Shutdown(_ context.Context) error {
	if c.store != nil {
		c.store.Wipe()
	}
	return nil
}

// initLogger creates and configures a structured logger based on the log
// level and format in configuration.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch c.config.LogFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// StoreError reports the error, if any, encountered opening the store.
// Exposed so callers that want to distinguish "no store configured yet" from
// other setup failures can do so without re-triggering initialization.
func (c *Container) StoreError() error {
	return c.storeErr
}
