package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/menutree/internal"
	pkgconfig "github.com/starford/menutree/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if p := cmd.String("tree"); p != "" {
		cfg.Tree.Path = p
		if err := cfg.Tree.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --tree: %w", err)
		}
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithVersion(version),
		internal.WithLogOutput(os.Stderr),
	)
}

func search(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Search output goes to stdout; keep it free of log lines.
	cfg.App.LogLevel = slog.LevelWarn
	query := strings.Join(cmd.Args().Slice(), " ")
	return internal.Search(ctx, query, cmd.Bool("keys"),
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	)
}

func validate(ctx context.Context, cmd *cli.Command) error {
	target := cmd.Args().First()
	if target == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		target = cfg.Tree.Path
	}
	_, err := internal.Validate(ctx, target)
	return err
}

func main() {
	cmd := &cli.Command{
		Name:    "menutree",
		Usage:   "Search and serve hierarchical navigation menus",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Path to the menu tree document (overrides tree.path)",
				Sources: cli.EnvVars("MENUTREE_TREE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API with live reload",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: serveMCP,
			},
			{
				Name:      "search",
				Usage:     "Print the filtered menu for a query",
				ArgsUsage: "<query>",
				Action:    search,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "keys",
						Usage: "Show node keys next to labels",
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Check tree documents for empty or duplicate keys",
				ArgsUsage: "[file or directory]",
				Action:    validate,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
