package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/billing"
)

func newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Subscription package commands",
	}

	cmd.AddCommand(newPackageListCmd())
	cmd.AddCommand(newPackageAddCmd())
	cmd.AddCommand(newPackageSetCmd())
	cmd.AddCommand(newPackageRmCmd())
	return cmd
}

func newPackageListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscription packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackageList(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runPackageList(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	packages, err := billing.List(gormDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(packages) == 0 {
		fmt.Fprintln(out, "No packages found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAMOUNT")
	for _, p := range packages {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Amount)
	}
	w.Flush()
	return nil
}

func newPackageAddCmd() *cobra.Command {
	var (
		configPath string
		opts       billing.CreateOpts
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a subscription package",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackageAdd(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "package name (required)")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "package price")
	cmd.MarkFlagRequired("name")
	return cmd
}

func runPackageAdd(cmd *cobra.Command, configPath string, opts billing.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	pkg, err := billing.Create(gormDB, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created package %d: %s (%s)\n", pkg.ID, pkg.Name, pkg.Amount)
	return nil
}

func newPackageSetCmd() *cobra.Command {
	var (
		configPath string
		opts       billing.CreateOpts
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a subscription package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackageSet(cmd, configPath, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "new package name")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "new package price")
	return cmd
}

func runPackageSet(cmd *cobra.Command, configPath, rawID string, opts billing.CreateOpts) error {
	id, err := parsePackageID(rawID)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("amount") {
		return fmt.Errorf("no fields to update (set --name or --amount)")
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	// Unset flags keep the stored values.
	current, err := billing.Get(gormDB, id)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("name") {
		opts.Name = current.Name
	}
	if !cmd.Flags().Changed("amount") {
		opts.Amount = current.Amount
	}

	pkg, err := billing.Update(gormDB, id, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated package %d: %s (%s)\n", pkg.ID, pkg.Name, pkg.Amount)
	return nil
}

func newPackageRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a subscription package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackageRm(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runPackageRm(cmd *cobra.Command, configPath, rawID string) error {
	id, err := parsePackageID(rawID)
	if err != nil {
		return err
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := billing.Delete(gormDB, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted package %d\n", id)
	return nil
}

func parsePackageID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid package ID: %w", err)
	}
	return uint(id), nil
}
