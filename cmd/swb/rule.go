package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/switchboard/internal/convlog"
	"github.com/zulandar/switchboard/internal/device"
	"github.com/zulandar/switchboard/internal/models"
	"github.com/zulandar/switchboard/internal/resolve"
	"github.com/zulandar/switchboard/internal/rule"
)

func newRuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Stage rule management commands",
	}

	cmd.AddCommand(newRuleListCmd())
	cmd.AddCommand(newRuleAddCmd())
	cmd.AddCommand(newRuleShowCmd())
	cmd.AddCommand(newRuleRmCmd())
	cmd.AddCommand(newRuleResolveCmd())
	cmd.AddCommand(newRuleDevicesCmd())
	return cmd
}

func newRuleListCmd() *cobra.Command {
	var (
		configPath string
		deviceID   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stage rules",
		Long:  "Lists stage rules newest first, optionally filtered by device.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleList(cmd, configPath, deviceID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&deviceID, "device", "", "filter by device")
	return cmd
}

func runRuleList(cmd *cobra.Command, configPath, deviceID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	var rules []models.StageRule
	if deviceID != "" {
		rules, err = rule.ListByDevice(gormDB, deviceID)
	} else {
		rules, err = rule.List(gormDB)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rules) == 0 {
		fmt.Fprintln(out, "No rules found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDEVICE\tSTAGE\tTYPE\tSOURCE\tCREATED")
	for _, r := range rules {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.DeviceID, truncate(r.Stage, 32), r.InputType,
			truncate(ruleSource(&r), 32), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

// ruleSource renders the rule's input source for table output.
func ruleSource(r *models.StageRule) string {
	if r.InputType == models.InputColumn {
		return r.SourceColumn
	}
	return strconv.Quote(r.LiteralValue)
}

func newRuleAddCmd() *cobra.Command {
	var (
		configPath string
		deviceID   string
		stage      string
		inputType  string
		column     string
		value      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a stage rule",
		Long: `Creates a stage rule binding a device and stage to an input source.
A column rule reads the named prospect field at send time; a hardcoded rule
always sends the literal value. One rule per device and stage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleAdd(cmd, configPath, rule.CreateOpts{
				DeviceID:     deviceID,
				Stage:        stage,
				InputType:    inputType,
				SourceColumn: column,
				LiteralValue: value,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&deviceID, "device", "", "device the rule applies to (required)")
	cmd.Flags().StringVar(&stage, "stage", "", "conversation stage (required)")
	cmd.Flags().StringVar(&inputType, "type", "", "input type: column or hardcoded (required)")
	cmd.Flags().StringVar(&column, "column", "", "prospect field to read (column rules)")
	cmd.Flags().StringVar(&value, "value", "", "literal value to send (hardcoded rules)")
	cmd.MarkFlagRequired("device")
	cmd.MarkFlagRequired("stage")
	cmd.MarkFlagRequired("type")
	return cmd
}

func runRuleAdd(cmd *cobra.Command, configPath string, opts rule.CreateOpts) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	// Rules are keyed by device; reject identifiers nothing is registered
	// under before they reach the store.
	exists, err := device.Exists(gormDB, opts.DeviceID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("device %q is not registered (see swb device add)", opts.DeviceID)
	}

	r, err := rule.Create(gormDB, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created rule %d for device %s, stage %q\n", r.ID, r.DeviceID, r.Stage)
	fmt.Fprintf(out, "Source: %s %s\n", r.InputType, ruleSource(r))
	return nil
}

func newRuleShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show stage rule details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runRuleShow(cmd *cobra.Command, configPath, rawID string) error {
	id, err := parseRuleID(rawID)
	if err != nil {
		return err
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	r, err := rule.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %d\n", r.ID)
	fmt.Fprintf(out, "Device:   %s\n", r.DeviceID)
	fmt.Fprintf(out, "Stage:    %s\n", r.Stage)
	fmt.Fprintf(out, "Type:     %s\n", r.InputType)
	if r.InputType == models.InputColumn {
		fmt.Fprintf(out, "Column:   %s\n", r.SourceColumn)
	} else {
		fmt.Fprintf(out, "Value:    %q\n", r.LiteralValue)
	}
	fmt.Fprintf(out, "Created:  %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func newRuleRmCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a stage rule",
		Long:  "Deletes the rule. The device and stage pair falls back to no configured input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleRm(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runRuleRm(cmd *cobra.Command, configPath, rawID string) error {
	id, err := parseRuleID(rawID)
	if err != nil {
		return err
	}

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := rule.Delete(gormDB, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted rule %d\n", id)
	return nil
}

func newRuleResolveCmd() *cobra.Command {
	var (
		configPath string
		deviceID   string
		stage      string
		prospect   string
		data       []string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a stage value against a prospect record",
		Long: `Finds the rule for the device and stage and resolves its value.
The prospect record comes from repeated --data key=value pairs, or from the
flow-bot thread of --prospect when set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleResolve(cmd, configPath, deviceID, stage, prospect, data)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().StringVar(&deviceID, "device", "", "device to resolve for (required)")
	cmd.Flags().StringVar(&stage, "stage", "", "conversation stage (required)")
	cmd.Flags().StringVar(&prospect, "prospect", "", "prospect number; loads the record from their flow-bot thread")
	cmd.Flags().StringArrayVarP(&data, "data", "d", nil, "prospect field as key=value (repeatable)")
	cmd.MarkFlagRequired("device")
	cmd.MarkFlagRequired("stage")
	return cmd
}

func runRuleResolve(cmd *cobra.Command, configPath, deviceID, stage, prospect string, data []string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	r, err := rule.Lookup(gormDB, deviceID, stage)
	if err != nil {
		return err
	}

	var record map[string]string
	if prospect != "" {
		thread, err := convlog.FindBotThread(gormDB, deviceID, prospect)
		if err != nil {
			return err
		}
		record = thread.ProspectRecord()
	} else {
		record, err = parseDataPairs(data)
		if err != nil {
			return err
		}
	}

	value, err := resolve.Value(r, record)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rule:   %d (%s %s)\n", r.ID, r.InputType, ruleSource(r))
	fmt.Fprintf(out, "Value:  %s\n", value)
	return nil
}

func newRuleDevicesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices available for rule creation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuleDevices(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runRuleDevices(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	ids, err := rule.Devices(device.Registry{DB: gormDB})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No devices registered.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

// parseDataPairs converts repeated key=value flags into a record map.
func parseDataPairs(pairs []string) (map[string]string, error) {
	record := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("bad data pair %q (want key=value)", p)
		}
		record[k] = v
	}
	return record, nil
}

func parseRuleID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid rule ID: %w", err)
	}
	return uint(id), nil
}
