package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/jahirul76/reliefweb-mcp/internal/config"
)

func TestNormalizeLogLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "debug", NormalizeLogLevel(" DEBUG "))
	require.Equal(t, "off", NormalizeLogLevel("off"))
	require.Equal(t, "info", NormalizeLogLevel("verbose"))
	require.Equal(t, "info", NormalizeLogLevel(""))
}

func TestNewLogger_Fallback(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := NewLogger("", "warn", buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "key=value")
}

func TestNewLogger_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reliefweb-mcp.log")
	buf := &bytes.Buffer{}

	logger, err := NewLogger(path, "debug", buf)
	require.NoError(t, err)
	logger.Debug("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
	require.Empty(t, buf.String())
}

func TestNewLogger_BadPath(t *testing.T) {
	t.Parallel()

	_, err := NewLogger(filepath.Join(t.TempDir(), "missing", "dir", "log"), "info", nil)
	require.Error(t, err)
}

func TestBaseCmd_BuildSearcher(t *testing.T) {
	t.Parallel()

	c := &BaseCmd{}
	c.SetLogger(hclog.NewNullLogger())

	cfg := config.Default()
	cfg.AppName = "test-app"
	s, err := c.BuildSearcher(cfg)
	require.NoError(t, err)
	require.NotNil(t, s)

	cfg.FetchConcurrency = 0
	_, err = c.BuildSearcher(cfg)
	require.Error(t, err)
}
