package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/rnotes/internal"
	pkgconfig "github.com/starford/rnotes/pkg/config"
)

var version = "dev"

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(configPath),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func addUser(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	u, err := internal.AddUser(ctx, cmd.String("email"), cmd.String("name"), cmd.String("password"), opts...)
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	fmt.Printf("User %d created: %s\n", u.ID, u.Email)
	return nil
}

func addCategory(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	c, err := internal.AddCategory(ctx, cmd.String("name"), opts...)
	if err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	fmt.Printf("Category %d created: %s\n", c.ID, c.Name)
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, cmd.String("email"), opts...)
}

func main() {
	cmd := &cli.Command{
		Name:    "rnotes-server",
		Usage:   "REST server for personal notes",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("RNOTES_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default)",
				Action: serve,
			},
			{
				Name:  "user",
				Usage: "Manage users",
				Commands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Register a user",
						Action: addUser,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "email", Required: true, Usage: "Login email"},
							&cli.StringFlag{Name: "name", Usage: "Display name"},
							&cli.StringFlag{Name: "password", Required: true, Usage: "Clear-text password", Sources: cli.EnvVars("RNOTES_USER_PASSWORD")},
						},
					},
				},
			},
			{
				Name:  "category",
				Usage: "Manage categories",
				Commands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a category",
						Action: addCategory,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true, Usage: "Category name"},
						},
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve one user's notes to MCP clients over stdio",
				Action: serveMCP,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "Email of the user to act as"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
