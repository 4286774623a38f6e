package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jahirul76/reliefweb-mcp/internal/config"
	"github.com/jahirul76/reliefweb-mcp/internal/flags"
	"github.com/jahirul76/reliefweb-mcp/internal/perms"
	"github.com/jahirul76/reliefweb-mcp/internal/reliefweb"
	"github.com/jahirul76/reliefweb-mcp/internal/tools"
)

// AppName is used to name the root logger.
const AppName = "reliefweb-mcp"

// SearcherBuilder creates the Searcher used by commands that query ReliefWeb.
type SearcherBuilder interface {
	BuildSearcher(cfg config.Config) (tools.Searcher, error)
}

type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command, creating one from the global flags if required.
//
// Logs are never written to stdout, which carries MCP traffic when serving.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	logger, err := NewLogger(flags.LogPath, flags.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	c.logger = logger
	return c.logger, nil
}

// BuildSearcher creates a ReliefWeb client from the effective configuration.
func (c *BaseCmd) BuildSearcher(cfg config.Config) (tools.Searcher, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}

	client, err := reliefweb.NewClient(
		logger,
		cfg.AppName,
		reliefweb.WithBaseURL(cfg.APIBaseURL),
		reliefweb.WithTimeout(cfg.Timeout()),
		reliefweb.WithFetchConcurrency(cfg.FetchConcurrency),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// NewLogger builds the application logger.
// When logPath is set, logs are appended to that file, otherwise they are written to fallback.
func NewLogger(logPath string, logLevel string, fallback io.Writer) (hclog.Logger, error) {
	output := fallback
	if output == nil {
		output = io.Discard
	}

	logPath = strings.TrimSpace(logPath)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   AppName,
		Level:  hclog.LevelFromString(NormalizeLogLevel(logLevel)),
		Output: output,
	}), nil
}

// NormalizeLogLevel returns a supported log level name, defaulting to the flags default.
func NormalizeLogLevel(level string) string {
	lvl := strings.ToLower(strings.TrimSpace(level))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return flags.DefaultLogLevel
	}
}
