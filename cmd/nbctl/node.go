package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"nodeboard/internal/config"
	"nodeboard/internal/node"
)

func statusCmd(out io.Writer, lookup config.LookupFunc) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Print the node's current block height",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.Root().String("config"), lookup)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			st, err := node.New(cfg.Node).Status(ctx)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out, "endpoint: %s\nheight:   %s\n", cfg.Node.Endpoint(), humanize.Comma(int64(st.Height)))
			return nil
		},
	}
}

func newAddressCmd(out io.Writer, lookup config.LookupFunc) *cli.Command {
	return &cli.Command{
		Name:  "newaddress",
		Usage: "Issue a fresh receiving address from the node wallet",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.Root().String("config"), lookup)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			addr, err := node.New(cfg.Node).NewAddress(ctx)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(out, addr.Address)
			return nil
		},
	}
}
