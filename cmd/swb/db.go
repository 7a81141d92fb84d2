package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zulandar/switchboard/internal/config"
	"github.com/zulandar/switchboard/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBMigrateCmd())
	cmd.AddCommand(newDBSeedCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var (
		configPath     string
		passwordPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Switchboard database",
		Long:  "Creates the MySQL database, migrates all tables, and seeds the configured billing packages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath, passwordPrompt)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().BoolVar(&passwordPrompt, "password-prompt", false, "prompt for the database password instead of reading it from config")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string, passwordPrompt bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Fprintf(out, "Loaded config from %s\n", configPath)

	if passwordPrompt {
		pw, err := readPassword(cmd)
		if err != nil {
			return err
		}
		cfg.Database.Password = pw
	}

	adminDB, err := db.ConnectAdmin(cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password)
	if err != nil {
		return fmt.Errorf("connect to MySQL at %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}
	fmt.Fprintf(out, "Connected to MySQL at %s:%d\n", cfg.Database.Host, cfg.Database.Port)

	if err := db.CreateDatabase(adminDB, cfg.Database.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Database)

	gormDB, err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database.Database, err)
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if len(cfg.Packages) > 0 {
		if err := db.SeedPackages(gormDB, cfg.Packages); err != nil {
			return err
		}
		fmt.Fprintf(out, "Seeded %d packages:", len(cfg.Packages))
		for _, p := range cfg.Packages {
			fmt.Fprintf(out, " %s", p.Name)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "\nSwitchboard database initialized successfully.")
	return nil
}

func newDBMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database schema",
		Long:  "Creates or updates all Switchboard tables without touching existing data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBMigrate(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runDBMigrate(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d tables\n", len(db.AllModels()))
	return nil
}

func newDBSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed billing packages from config",
		Long:  "Upserts the billing packages listed in the config file. Existing packages are updated by name, not duplicated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBSeed(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	return cmd
}

func runDBSeed(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if len(cfg.Packages) == 0 {
		fmt.Fprintln(out, "No packages configured, nothing to seed.")
		return nil
	}

	if err := db.SeedPackages(gormDB, cfg.Packages); err != nil {
		return err
	}
	fmt.Fprintf(out, "Seeded %d packages:", len(cfg.Packages))
	for _, p := range cfg.Packages {
		fmt.Fprintf(out, " %s", p.Name)
	}
	fmt.Fprintln(out)
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and re-initialize the Switchboard database",
		Long: `Drops the Switchboard database, then re-creates it, migrates the schema,
and seeds the configured billing packages. All stage rules, devices, and
conversation logs are lost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "switchboard.yaml", "path to Switchboard config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !skipConfirm {
		if !confirmReset(cmd, cfg.Database.Database) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	adminDB, err := db.ConnectAdmin(cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password)
	if err != nil {
		return fmt.Errorf("connect to MySQL at %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
	}

	if err := db.DropDatabase(adminDB, cfg.Database.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Dropped database %s\n", cfg.Database.Database)

	if err := db.CreateDatabase(adminDB, cfg.Database.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s re-created\n", cfg.Database.Database)

	gormDB, err := db.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Database)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database.Database, err)
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	if len(cfg.Packages) > 0 {
		if err := db.SeedPackages(gormDB, cfg.Packages); err != nil {
			return err
		}
		fmt.Fprintf(out, "Seeded %d packages\n", len(cfg.Packages))
	}

	fmt.Fprintln(out, "\nSwitchboard database reset successfully.")
	return nil
}

func confirmReset(cmd *cobra.Command, dbName string) bool {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintf(out, "WARNING: This will permanently delete all data in database %q.\n", dbName)
	fmt.Fprintln(out, "This action cannot be undone.")
	fmt.Fprintln(out)
	fmt.Fprint(out, "Type \"yes\" to confirm: ")

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()) == "yes"
	}
	return false
}

// readPassword reads the database password from the terminal without echo.
func readPassword(cmd *cobra.Command) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "MySQL password: ")

	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
