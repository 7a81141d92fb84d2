package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/device"
	"github.com/zulandar/switchboard/internal/models"
	"github.com/zulandar/switchboard/internal/provider"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Device registry commands",
	}

	cmd.AddCommand(newDeviceListCmd())
	cmd.AddCommand(newDeviceAddCmd())
	cmd.AddCommand(newDeviceRmCmd())
	cmd.AddCommand(newDeviceStatusCmd())
	return cmd
}

func newDeviceListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runDeviceList(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	devices, err := device.List(gormDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(devices) == 0 {
		fmt.Fprintln(out, "No devices registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tPHONE\tURL")
	for _, d := range devices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.DeviceID, d.Provider, d.PhoneNumber, truncate(d.APIURL, 48))
	}
	w.Flush()
	return nil
}

func newDeviceAddCmd() *cobra.Command {
	var (
		configPath string
		opts       device.CreateOpts
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a device",
		Long: `Registers a WhatsApp device with its provider credentials.
Supported providers: wablas, whacenter, waha.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceAdd(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&opts.DeviceID, "id", "", "device identifier (required)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "provider name (required)")
	cmd.Flags().StringVar(&opts.APIURL, "url", "", "provider API base URL")
	cmd.Flags().StringVar(&opts.APIKey, "key", "", "provider API key or token")
	cmd.Flags().StringVar(&opts.PhoneNumber, "phone", "", "phone number bound to the device")
	cmd.Flags().StringVar(&opts.Webhook, "webhook", "", "inbound webhook URL")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("provider")
	return cmd
}

func runDeviceAdd(cmd *cobra.Command, configPath string, opts device.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	dev, err := device.Create(gormDB, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered device %s (%s)\n", dev.DeviceID, dev.Provider)
	return nil
}

func newDeviceRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceRm(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runDeviceRm(cmd *cobra.Command, configPath, deviceID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := device.Delete(gormDB, deviceID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed device %s\n", deviceID)
	return nil
}

func newDeviceStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status [id]",
		Short: "Probe device session status",
		Long:  "Asks each device's provider whether the WhatsApp session is connected.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID := ""
			if len(args) > 0 {
				deviceID = args[0]
			}
			return runDeviceStatus(cmd, configPath, deviceID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runDeviceStatus(cmd *cobra.Command, configPath, deviceID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	var devices []models.Device
	if deviceID != "" {
		dev, err := device.Get(gormDB, deviceID)
		if err != nil {
			return err
		}
		devices = []models.Device{*dev}
	} else {
		devices, err = device.List(gormDB)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(devices) == 0 {
		fmt.Fprintln(out, "No devices registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tSTATUS\tSTATE")
	for i := range devices {
		dev := &devices[i]
		status, state := probeDevice(cmd.Context(), dev)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", dev.DeviceID, dev.Provider, status, truncate(state, 48))
	}
	w.Flush()
	return nil
}

// probeDevice asks the device's provider for session status. Probe failures
// report as offline rather than aborting the listing.
func probeDevice(ctx context.Context, dev *models.Device) (status, state string) {
	client, err := provider.ForDevice(dev, provider.DefaultTimeout)
	if err != nil {
		return "OFFLINE", err.Error()
	}

	ctx, cancel := context.WithTimeout(ctx, provider.DefaultTimeout)
	defer cancel()

	st, err := client.Status(ctx, dev)
	if err != nil {
		return "OFFLINE", "unreachable"
	}
	if !st.Online {
		return "OFFLINE", st.State
	}
	return "ONLINE", st.State
}
