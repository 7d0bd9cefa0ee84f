// Package cli defines the paprika command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/starford/paprika/internal"
	pkgconfig "github.com/starford/paprika/pkg/config"
)

const name = "paprika"

// New returns the root command.
func New() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Sync client for the Paprika recipe manager",
		Version: internal.Version,
		Description: `Reads and writes recipes in a Paprika account through the sync API.

Credentials come from the account section of the config file or from the
PAPRIKA_EMAIL and PAPRIKA_PASSWORD environment variables (a .env file in the
working directory is loaded automatically).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			loginCmd(),
			recipesCmd(),
			categoriesCmd(),
			mcpCmd(),
		},
	}
}

// loadConfig reads the config file named by --config, lets the environment
// override the credentials and validates the result.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.Root().String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setup(cmd *cli.Command) (*internal.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return internal.Setup(internal.WithConfig(cfg))
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func loginCmd() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Exchange the configured credentials for a token and print it",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			token, err := app.Session.Login(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout(cmd), token)
			return err
		},
	}
}

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the account as MCP tools over stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithStdio(os.Stdin, stdout(cmd)))
		},
	}
}
