package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jahirul76/reliefweb-mcp/internal/files"
	"github.com/jahirul76/reliefweb-mcp/internal/flags"
	"github.com/jahirul76/reliefweb-mcp/internal/perms"
)

// userConfigFileName is looked up in the user config dir when the default config file is absent.
const userConfigFileName = "config.toml"

// Default returns the configuration used when no file or environment override is present.
func Default() Config {
	return Config{
		APIBaseURL:       DefaultAPIBaseURL,
		RequestTimeout:   DefaultRequestTimeout,
		FetchConcurrency: DefaultFetchConcurrency,
	}
}

// Init creates the base skeleton configuration file.
func (d *DefaultLoader) Init(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	def := Default()
	content := fmt.Sprintf(`# ReliefWeb application identifier, can also be provided with the '%s' environment variable.
appname = ""

api_base_url = %q
request_timeout = %q
fetch_concurrency = %d
`,
		EnvVarAppName,
		def.APIBaseURL,
		def.RequestTimeout.String(),
		def.FetchConcurrency,
	)

	if err := os.WriteFile(path, []byte(content), perms.SecureFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load builds the effective configuration.
//
// Values are layered: defaults, then the TOML file at path (when present), then environment variables.
// A missing file is only an error when path is not the default config file name.
// The application identifier is not required here, callers that serve requests use RequireAppName.
func (d *DefaultLoader) Load(path string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	if resolved != "" {
		if _, err := toml.DecodeFile(resolved, &cfg); err != nil {
			return Config{}, fmt.Errorf(
				"%w: failed to decode config from file (%s): %w",
				ErrConfigLoadFailed,
				resolved,
				err,
			)
		}
		cfg.configFilePath = resolved
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	return cfg, nil
}

// RequireAppName returns ErrMissingAppName when no application identifier is configured.
func (c Config) RequireAppName() error {
	if strings.TrimSpace(c.AppName) == "" {
		return fmt.Errorf(
			"%w: set the '%s' environment variable or 'appname' in the config file",
			ErrMissingAppName,
			EnvVarAppName,
		)
	}
	return nil
}

// Timeout returns the request timeout as a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout)
}

// applyEnv overrides file values with any environment variables that are set.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvVarAppName); ok && strings.TrimSpace(v) != "" {
		c.AppName = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvVarAPIBaseURL); ok && strings.TrimSpace(v) != "" {
		c.APIBaseURL = strings.TrimSpace(v)
	}
}

// validate checks the structure of the configuration, it does not require the application identifier.
func (c *Config) validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewErrInvalidValue("api_base_url", c.APIBaseURL)
	}

	if c.RequestTimeout <= 0 {
		return NewErrInvalidValue("request_timeout", c.RequestTimeout.String())
	}

	if c.FetchConcurrency < 1 {
		return NewErrInvalidValue("fetch_concurrency", fmt.Sprintf("%d", c.FetchConcurrency))
	}

	return nil
}

// resolvePath returns the config file to read, or an empty string when there is none.
// When path is the default file name and it does not exist, the user config dir is tried.
func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	if files.Exists(path) {
		return path, nil
	}

	if path != flags.DefaultConfigFile {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: config file cannot be found (%s): %w", ErrConfigLoadFailed, path, err)
		}
		return "", fmt.Errorf("%w: config path is not a regular file (%s)", ErrConfigLoadFailed, path)
	}

	dir, err := files.UserSpecificConfigDir()
	if err != nil {
		// No user config dir, carry on with defaults and environment.
		return "", nil
	}

	userPath := filepath.Join(dir, userConfigFileName)
	if files.Exists(userPath) {
		return userPath, nil
	}

	return "", nil
}
