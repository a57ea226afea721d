package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"nodeboard/internal/config"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	app := newApp(os.Stdout, os.LookupEnv)
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}

func newApp(out io.Writer, lookup config.LookupFunc) *cli.Command {
	return &cli.Command{
		Name:    "nbctl",
		Version: Version,
		Usage:   "operator CLI for nodeboard",
		Writer:  out,

		// Exit codes are applied in main so commands stay runnable in tests.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to YAML or TOML configuration file",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Sources: cli.EnvVars("NODEBOARD_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			statusCmd(out, lookup),
			newAddressCmd(out, lookup),
			qrCmd(out),
			hashPasswordCmd(out),
			validateCmd(out, lookup),
		},
	}
}

// loadConfig tolerates a missing file the same way the server does.
func loadConfig(path string, lookup config.LookupFunc) (*config.Config, error) {
	cfg, err := config.Load(path, lookup)
	if cfg == nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
