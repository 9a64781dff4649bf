package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/config"
	"github.com/dootask/assetsctl/internal/logger"
)

func main() {
	app := &cli.App{
		Name:  "assetsctl",
		Usage: "Admin console for AI agent configuration and asset management",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the config file",
				Value:   config.DefaultPath(),
				EnvVars: []string{"ASSETSCTL_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Backend server URL",
				EnvVars: []string{"ASSETSCTL_SERVER"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token for the backend API",
				EnvVars: []string{"ASSETSCTL_TOKEN"},
			},
			&cli.IntFlag{
				Name:    "page-size",
				Usage:   "Page size for list commands",
				EnvVars: []string{"ASSETSCTL_PAGE_SIZE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			app, err := newConsole(c)
			if err != nil {
				return err
			}
			logger.Setup(logger.ParseLevel(app.settings.Current().LogLevel))
			c.App.Metadata["console"] = app
			return nil
		},
		Commands: []*cli.Command{
			agentCommand(),
			modelCommand(),
			toolCommand(),
			knowledgeBaseCommand(),
			assetCommand(),
			borrowCommand(),
			inventoryCommand(),
			reportCommand(),
			mockServeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}
