package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"nodeboard/internal/qr"
)

func qrCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "qr",
		Usage:     "Render a payload to a PNG file, same bytes as GET /qr/{payload}",
		ArgsUsage: "<payload>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Usage:   "Path of the PNG to write",
				Aliases: []string{"o"},
				Value:   "qr.png",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return cli.Exit("payload required", 2)
			}
			png, err := qr.Encode(cmd.Args().Get(0))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			path := cmd.String("output")
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(out, "ok: wrote %d bytes to %s\n", len(png), path)
			return nil
		},
	}
}
