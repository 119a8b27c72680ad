package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/rnotes/internal/client"
	rcli "github.com/starford/rnotes/internal/cli"
	pkgconfig "github.com/starford/rnotes/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("unexpected argument %q", cmd.Args().Get(1))
	}

	cfg := rcli.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(os.Getenv("RNOTES_CLI_CONFIG"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	server := cmd.Args().First()
	if server == "" {
		server = client.DefaultBaseURL
	}

	if err := rcli.Run(ctx, rcli.WithConfig(cfg), rcli.WithServer(server)); err != nil {
		return fmt.Errorf("cli run error: %w", err)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "rnotes-cli",
		Usage:     "Interactive command line client for an rnotes server",
		ArgsUsage: "[SERVER]",
		Action:    run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
