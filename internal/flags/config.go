// Package flags holds the global CLI flags shared by every reliefweb-mcp command.
//
// Each flag is seeded from its environment variable, so the effective precedence is
// flag, then environment, then default.
package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	EnvVarConfigFile = "RELIEFWEB_MCP_CONFIG_FILE"
	EnvVarLogPath    = "RELIEFWEB_MCP_LOG_PATH"
	EnvVarLogLevel   = "RELIEFWEB_MCP_LOG_LEVEL"

	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"

	DefaultConfigFile = ".reliefweb-mcp.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"
)

var (
	// ConfigFile is the TOML file read by config.DefaultLoader.
	ConfigFile string

	// LogPath is the file logs are appended to, stderr is used when empty.
	LogPath string

	// LogLevel is one of trace, debug, info, warn, error or off.
	LogLevel string
)

// InitFlags registers the persistent flags on fs.
// Values already assigned (e.g. by an earlier call) are kept as the flag defaults.
func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	ConfigFile = seed(ConfigFile, EnvVarConfigFile, DefaultConfigFile)
	fs.StringVar(
		&ConfigFile,
		FlagNameConfigFile,
		ConfigFile,
		"path to the TOML config file (env: "+EnvVarConfigFile+")",
	)
}

func initLogger(fs *pflag.FlagSet) {
	LogPath = seed(LogPath, EnvVarLogPath, DefaultLogPath)
	fs.StringVar(
		&LogPath,
		FlagNameLogPath,
		LogPath,
		"append logs to this file instead of stderr (env: "+EnvVarLogPath+")",
	)

	LogLevel = strings.ToLower(seed(LogLevel, EnvVarLogLevel, DefaultLogLevel))
	fs.StringVar(
		&LogLevel,
		FlagNameLogLevel,
		LogLevel,
		"log level: trace, debug, info, warn, error or off (env: "+EnvVarLogLevel+")",
	)
}

// seed returns current when already set, otherwise the trimmed env var, otherwise def.
func seed(current string, envVar string, def string) string {
	if current != "" {
		return current
	}
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	return def
}
