package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/api"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin API server",
		Long:  "Serves the Switchboard admin API: stage rules, devices, billing packages, conversation logs, and dashboard counters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath, addr string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	return api.Start(ctx, api.StartOpts{
		DB:           gormDB,
		Addr:         addr,
		StoreTimeout: time.Duration(cfg.Server.StoreTimeout),
		Out:          cmd.OutOrStdout(),
	})
}
