package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jahirul76/reliefweb-mcp/internal/cmd"
	cmdopts "github.com/jahirul76/reliefweb-mcp/internal/cmd/options"
	"github.com/jahirul76/reliefweb-mcp/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.ExecuteContext(context.Background())
}

func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:          "reliefweb-mcp <command> [args]",
		Short:        "MCP server exposing ReliefWeb disaster and report search tools",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	// Commands share the root logger unless a test supplies its own builder.
	opts := append([]cmdopts.CmdOption{cmdopts.WithSearcherBuilder(c.BaseCmd)}, opt...)

	fns := []func(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error){
		NewServeCmd,
		NewSearchCmd,
		NewConfigCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(c.BaseCmd, opts...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'reliefweb-mcp' CLI serves the ReliefWeb humanitarian information API as MCP tools over stdio.

It can also run a single search from the command line, and create or inspect its configuration file.`
}
