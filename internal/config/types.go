package config

import (
	"time"
)

const (
	// EnvVarAppName is the environment variable holding the ReliefWeb application identifier.
	EnvVarAppName = "appname"

	// EnvVarAPIBaseURL overrides the API root.
	EnvVarAPIBaseURL = "RELIEFWEB_API_URL"

	// DefaultAPIBaseURL is the public ReliefWeb API (v2).
	DefaultAPIBaseURL = "https://api.reliefweb.int/v2"

	// DefaultRequestTimeout bounds each individual HTTP request.
	DefaultRequestTimeout = Duration(30 * time.Second)

	// DefaultFetchConcurrency fetches documents one at a time.
	DefaultFetchConcurrency = 1
)

var _ Provider = (*DefaultLoader)(nil)

type Loader interface {
	Load(path string) (Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

// DefaultLoader reads configuration from an optional TOML file and the process environment.
type DefaultLoader struct{}

// Config represents the .reliefweb-mcp.toml file structure, after environment overrides are applied.
//
// NOTE: if you add/remove fields you must review validate, the env overrides in applyEnv,
// and the skeleton written by Init.
type Config struct {
	// AppName identifies this client to the ReliefWeb API.
	// It is required to serve requests, see RequireAppName.
	AppName string `json:"appname" toml:"appname" yaml:"appname"`

	// APIBaseURL is the API root that the 'disasters' and 'reports' endpoints are appended to.
	APIBaseURL string `json:"apiBaseURL" toml:"api_base_url" yaml:"api_base_url"`

	// RequestTimeout bounds each individual HTTP request.
	RequestTimeout Duration `json:"requestTimeout" toml:"request_timeout" yaml:"request_timeout"`

	// FetchConcurrency is the maximum number of documents fetched at once.
	FetchConcurrency int `json:"fetchConcurrency" toml:"fetch_concurrency" yaml:"fetch_concurrency"`

	configFilePath string `toml:"-"`
}

// FilePath returns the path of the configuration file that was loaded, or empty when none was found.
func (c Config) FilePath() string {
	return c.configFilePath
}

// Duration is a custom time.Duration type that provides improved marshaling.
type Duration time.Duration
