package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/alert"
	discordadapter "github.com/zulandar/switchboard/internal/alert/discord"
	slackadapter "github.com/zulandar/switchboard/internal/alert/slack"
	"github.com/zulandar/switchboard/internal/config"
)

func newAlertCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Run the alert daemon",
		Long:  "Watches device health and posts transition alerts and a daily digest to the configured chat platform (Discord, Slack).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlert(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runAlert(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Alert.Platform == "" {
		return fmt.Errorf("alert: no platform configured in %s (add alert.platform)", configPath)
	}

	adapter, err := createAdapter(cfg)
	if err != nil {
		return err
	}

	daemon, err := alert.New(alert.Opts{
		DB:            gormDB,
		Adapter:       adapter,
		Channel:       cfg.Alert.Channel,
		SweepInterval: time.Duration(cfg.Alert.SweepInterval),
		DigestCron:    cfg.Alert.DigestCron,
		Out:           cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return daemon.Run(ctx)
}

// createAdapter builds a platform adapter from the config.
func createAdapter(cfg *config.Config) (alert.Adapter, error) {
	switch cfg.Alert.Platform {
	case "discord":
		return discordadapter.New(discordadapter.AdapterOpts{
			BotToken:  cfg.Alert.Token,
			ChannelID: cfg.Alert.Channel,
		})
	case "slack":
		return slackadapter.New(slackadapter.AdapterOpts{
			BotToken:  cfg.Alert.Token,
			ChannelID: cfg.Alert.Channel,
		})
	default:
		return nil, fmt.Errorf("alert: unsupported platform %q", cfg.Alert.Platform)
	}
}
