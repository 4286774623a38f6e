package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jahirul76/reliefweb-mcp/internal/cmd"
	cmdopts "github.com/jahirul76/reliefweb-mcp/internal/cmd/options"
	"github.com/jahirul76/reliefweb-mcp/internal/config"
	"github.com/jahirul76/reliefweb-mcp/internal/flags"
)

const (
	appNameSet   = "set"
	appNameUnset = "unset"
)

// ConfigShowResult is the effective configuration with the application identifier redacted.
type ConfigShowResult struct {
	ConfigFile       string `json:"configFile" yaml:"configFile"`
	AppName          string `json:"appname" yaml:"appname"`
	APIBaseURL       string `json:"apiBaseURL" yaml:"apiBaseURL"`
	RequestTimeout   string `json:"requestTimeout" yaml:"requestTimeout"`
	FetchConcurrency int    `json:"fetchConcurrency" yaml:"fetchConcurrency"`
}

type ConfigInitCmd struct {
	*cmd.BaseCmd
	cfgInitializer config.Initializer
}

type ConfigShowCmd struct {
	*cmd.BaseCmd
	cfgLoader config.Loader
	format    cmd.OutputFormat
}

// NewConfigCmd returns the 'config' command group.
func NewConfigCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manages the reliefweb-mcp configuration file",
	}

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewConfigInitCmd,
		NewConfigShowCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}

func NewConfigInitCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ConfigInitCmd{
		BaseCmd:        baseCmd,
		cfgInitializer: opts.ConfigInitializer,
	}

	cobraCmd := &cobra.Command{
		Use:   "init",
		Short: "Creates a skeleton configuration file",
		Long: fmt.Sprintf(
			"Creates a skeleton %s configuration file holding the default settings.\n\n"+
				"The configuration file path can be overridden using the `--%s` flag or the `%s` environment variable",
			flags.DefaultConfigFile,
			flags.FlagNameConfigFile,
			flags.EnvVarConfigFile,
		),
		Args: cobra.NoArgs,
		RunE: c.run,
	}

	return cobraCmd, nil
}

func (c *ConfigInitCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	if err := c.cfgInitializer.Init(flags.ConfigFile); err != nil {
		logger.Error("Configuration initialization failed", "error", err)
		return fmt.Errorf("error initializing configuration: %w", err)
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "✓ Config file created: %s\n", flags.ConfigFile); err != nil {
		return err
	}

	return nil
}

func NewConfigShowCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ConfigShowCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		format:    cmd.FormatText,
	}

	cobraCmd := &cobra.Command{
		Use:   "show",
		Short: "Prints the effective configuration after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ConfigShowCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.FormatHandler(cobraCmd.OutOrStdout(), c.format, writeConfigText)
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return handler.HandleError(err)
	}

	return handler.HandleResult(newConfigShowResult(cfg))
}

func newConfigShowResult(cfg config.Config) ConfigShowResult {
	appName := appNameUnset
	if cfg.RequireAppName() == nil {
		appName = appNameSet
	}

	return ConfigShowResult{
		ConfigFile:       cfg.FilePath(),
		AppName:          appName,
		APIBaseURL:       cfg.APIBaseURL,
		RequestTimeout:   cfg.RequestTimeout.String(),
		FetchConcurrency: cfg.FetchConcurrency,
	}
}

func writeConfigText(w io.Writer, r ConfigShowResult) error {
	configFile := r.ConfigFile
	if configFile == "" {
		configFile = "(none)"
	}

	_, err := fmt.Fprintf(
		w,
		"config file:       %s\nappname:           %s\napi base url:      %s\nrequest timeout:   %s\nfetch concurrency: %d\n",
		configFile,
		r.AppName,
		r.APIBaseURL,
		r.RequestTimeout,
		r.FetchConcurrency,
	)
	return err
}
