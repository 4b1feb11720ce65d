package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ainotes/internal"
	"github.com/starford/ainotes/internal/commands"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg, err := internal.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := internal.NewUILogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithLogger(logger)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithLogger(logger))
}

func loadEnv(_ context.Context, cmd *cli.Command) (*commands.Env, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger := internal.NewLogger(os.Stderr, cfg.App.LogLevel)
	svc, err := internal.NewServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc.CommandEnv(os.Stdout), func() { _ = svc.Close() }, nil
}

func main() {
	cmds := commands.Commands(loadEnv)
	cmds = append(cmds,
		&cli.Command{
			Name:   "tui",
			Usage:  "Open the terminal UI (default)",
			Action: runTUI,
		},
		&cli.Command{
			Name:   "mcp",
			Usage:  "Serve the note tools to an MCP client over stdio",
			Action: runMCP,
		},
	)

	cmd := &cli.Command{
		Name:     "ainotes",
		Usage:    "Browse, edit, favourite and share AI notes from the terminal",
		Action:   runTUI,
		Commands: cmds,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
