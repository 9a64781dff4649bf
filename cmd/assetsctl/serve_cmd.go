package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dootask/assetsctl/internal/mockserver"
	"github.com/dootask/assetsctl/internal/mockserver/store"
)

func mockServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock-serve",
		Usage: "Run a local mock backend against a sqlite database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   "8080",
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "db",
				Value:   "assetsctl.db",
				Usage:   "Sqlite database path, or :memory:",
				EnvVars: []string{"ASSETSCTL_DB"},
			},
			&cli.BoolFlag{
				Name:  "seed",
				Value: true,
				Usage: "Load demo data into an empty database",
			},
		},
		Action: runMockServe,
	}
}

func runMockServe(c *cli.Context) error {
	ctx := c.Context
	port := c.String("port")

	st, err := store.Open(ctx, c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	if c.Bool("seed") {
		if err := st.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
	}

	h := mockserver.New(st, fromContext(c).settings.Current().Token)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting mock server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down mock server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("mock server stopped")
	return nil
}
