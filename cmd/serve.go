package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jahirul76/reliefweb-mcp/internal/cmd"
	cmdopts "github.com/jahirul76/reliefweb-mcp/internal/cmd/options"
	"github.com/jahirul76/reliefweb-mcp/internal/config"
	"github.com/jahirul76/reliefweb-mcp/internal/flags"
	"github.com/jahirul76/reliefweb-mcp/internal/mcpserver"
	"github.com/jahirul76/reliefweb-mcp/internal/tools"
)

type ServeCmd struct {
	*cmd.BaseCmd
	cfgLoader       config.Loader
	searcherBuilder cmd.SearcherBuilder
}

func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd:         baseCmd,
		cfgLoader:       opts.ConfigLoader,
		searcherBuilder: opts.SearcherBuilder,
	}

	cobraCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the ReliefWeb search tools over MCP stdio",
		Long:  c.longDescription(),
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	return cobraCmd, nil
}

func (c *ServeCmd) longDescription() string {
	return fmt.Sprintf(
		"Serves the '%s' and '%s' tools using the Model Context Protocol over stdin/stdout.\n\n"+
			"The ReliefWeb application identifier must be set, either in the configuration file "+
			"or with the '%s' environment variable.\n\n"+
			"Logs are written to stderr, or to the file given by '--%s' / '%s'.",
		tools.ToolSearchDisasters,
		tools.ToolSearchReports,
		config.EnvVarAppName,
		flags.FlagNameLogPath,
		flags.EnvVarLogPath,
	)
}

func (c *ServeCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}

	if err := cfg.RequireAppName(); err != nil {
		logger.Error("Cannot start server", "error", err)
		return err
	}

	searcher, err := c.searcherBuilder.BuildSearcher(cfg)
	if err != nil {
		logger.Error("Failed to create ReliefWeb client", "error", err)
		return err
	}

	disasters, err := tools.NewSearchDisastersTool(searcher, logger)
	if err != nil {
		return err
	}
	reports, err := tools.NewSearchReportsTool(searcher, logger)
	if err != nil {
		return err
	}

	server, err := mcpserver.NewServer(logger, cmd.Root().Version, disasters, reports)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(
		"Starting server",
		"config", cfg.FilePath(),
		"api", cfg.APIBaseURL,
		"timeout", cfg.RequestTimeout.String(),
		"fetchConcurrency", cfg.FetchConcurrency,
	)

	return server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
