package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"nodeboard/internal/config"
)

func validateCmd(out io.Writer, lookup config.LookupFunc) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check that a configuration file and the environment would start the server",
		ArgsUsage: "[config]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Root().String("config")
			if cmd.Args().Len() > 0 {
				path = cmd.Args().Get(0)
			}
			cfg, err := config.Load(path, lookup)
			if cfg == nil {
				return cli.Exit(fmt.Sprintf("validation failed: %v", err), 1)
			}
			if errors.Is(err, config.ErrNoConfigFile) {
				fmt.Fprintf(out, "warning: %v, using defaults\n", err)
			}
			fmt.Fprintf(out, "Configuration %s is valid\n", path)
			fmt.Fprintf(out, "  http.address: %s\n  node:         %s\n  wallet:       %q\n  auth:         %t\n  metrics:      %t\n",
				cfg.HTTP.Address, cfg.Node.Endpoint(), cfg.Node.Wallet,
				cfg.Security.PasswordHash != "", cfg.Metrics.Enabled)
			return nil
		},
	}
}
