package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/asakaida/troschema/internal/infrastructure/config"
	"github.com/asakaida/troschema/internal/infrastructure/database"
	"github.com/asakaida/troschema/internal/infrastructure/logging"
	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	envFlag string
	pg      *database.Postgres
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration tool for the troschema revision registry",
	Long: `Database migration tool for the troschema revision registry.
Manages the schema_revisions table using golang-migrate.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupDatabase,
	PersistentPostRunE: closeDatabase,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runUp,
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback migrations",
	Long:  `Rollback the specified number of migrations (default: 1).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDown,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current migration version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Force set migration version (use with caution)",
	Long:  `Force set the migration version without running migrations. Use with caution.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runForce,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "dev", "Environment to use (dev, test, prod)")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(forceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupDatabase(cmd *cobra.Command, args []string) error {
	if err := config.InitConfig(envFlag); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	pg, err = database.NewPostgres(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().
		Str("env", envFlag).
		Str("user", cfg.Database.User).
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Database).
		Msg("connected to database")
	return nil
}

func closeDatabase(cmd *cobra.Command, args []string) error {
	if pg == nil {
		return nil
	}
	return pg.Close()
}

func newMigrate() (*migrate.Migrate, error) {
	root, err := config.ProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	path := filepath.Join(root, database.MigrationsDir)
	logger.Debug().Str("path", path).Msg("using migrations")

	return pg.NewMigrate(path)
}

func runUp(cmd *cobra.Command, args []string) error {
	m, err := newMigrate()
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info().Msg("no migrations to apply")
	case err != nil:
		return fmt.Errorf("migration up failed: %w", err)
	default:
		logger.Info().Msg("migration up completed")
	}
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid step count: %s", args[0])
		}
		steps = n
	}

	m, err := newMigrate()
	if err != nil {
		return err
	}

	err = m.Steps(-steps)
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info().Msg("no migrations to rollback")
	case err != nil:
		return fmt.Errorf("migration down failed: %w", err)
	default:
		logger.Info().Int("steps", steps).Msg("migration down completed")
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	m, err := newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty - migration may have failed)\n", version)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", version)
	}
	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version: %s", args[0])
	}

	m, err := newMigrate()
	if err != nil {
		return err
	}

	if err := m.Force(version); err != nil {
		return fmt.Errorf("migration force failed: %w", err)
	}

	logger.Warn().Int("version", version).Msg("migration version forced")
	return nil
}
