package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/arm-software/astcenc-bridge/astc/bridge"
	"github.com/arm-software/astcenc-bridge/internal/config"
	"github.com/arm-software/astcenc-bridge/internal/logging"
	"github.com/arm-software/astcenc-bridge/internal/workpool"
)

// errRequestsFailed is returned when at least one request did not produce a
// texture. The summary already explains which.
var errRequestsFailed = errors.New("one or more requests failed")

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: w,
	})
}

// bridgeRuntime is the process-wide pool and dispatcher used by one command.
type bridgeRuntime struct {
	pool       *workpool.Pool
	dispatcher *bridge.Dispatcher
	logger     *slog.Logger
	binding    string
}

func (c *commandContext) startRuntime(cfg *config.Config, logger *slog.Logger) (*bridgeRuntime, error) {
	binding, name, err := newBinding(cfg)
	if err != nil {
		return nil, err
	}
	pool := workpool.New(cfg.Pool.Workers, cfg.Pool.Queue, logger)
	pool.Start()
	logger.Debug("bridge started",
		"binding", name,
		"workers", cfg.Pool.Workers,
		"queue", cfg.Pool.Queue,
	)
	return &bridgeRuntime{
		pool:       pool,
		dispatcher: bridge.NewDispatcher(pool, binding, bridge.WithLogger(logger)),
		logger:     logger,
		binding:    name,
	}, nil
}

func (r *bridgeRuntime) close(ctx context.Context) error {
	if err := r.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("shut down worker pool: %w", err)
	}
	return nil
}
