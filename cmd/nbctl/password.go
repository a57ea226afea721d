package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"nodeboard/internal/auth"
)

const minPasswordLen = 8

// readPassword is swapped in tests, where stdin is not a terminal.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func hashPasswordCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "hash-password",
		Usage: "Prompt for a password and print its bcrypt hash for security.password_hash",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			pw, err := readPassword("Password: ")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			pw2, err := readPassword("Confirm password: ")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if pw != pw2 {
				return cli.Exit("passwords do not match", 1)
			}
			if len(pw) < minPasswordLen {
				return cli.Exit(fmt.Sprintf("password too short (min %d chars)", minPasswordLen), 1)
			}
			hash, err := auth.HashPassword(pw)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(out, hash)
			return nil
		},
	}
}
