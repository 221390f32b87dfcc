package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/asakaida/troschema/internal/infrastructure/config"
	"github.com/asakaida/troschema/internal/infrastructure/logging"
	"github.com/asakaida/troschema/internal/infrastructure/metrics"
	"github.com/asakaida/troschema/internal/services/descriptor"
	"github.com/asakaida/troschema/internal/services/document"
	"github.com/asakaida/troschema/internal/services/generator"
	"github.com/asakaida/troschema/internal/services/validator"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds state shared by every subcommand
type app struct {
	env     string
	cfg     *config.Config
	logger  zerolog.Logger
	catalog *descriptor.Catalog
	metrics *metrics.Recorder
	stderr  io.Writer
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{
		catalog: descriptor.NewCatalog(),
		metrics: metrics.NewRecorder(),
		stderr:  stderr,
	}

	rootCmd := &cobra.Command{
		Use:   "troschema",
		Short: "Schema tooling for TRO case posts",
		Long: `Schema tooling for TRO case posts.
Exports the tro_post document schema, renders previews, assembles posts from
crawl rows and keeps a history of published schema revisions in PostgreSQL.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&a.env, "env", "e", "dev", "Environment to use (dev, test, prod)")

	rootCmd.AddCommand(
		a.exportCmd(),
		a.validateCmd(),
		a.jsonSchemaCmd(),
		a.previewCmd(),
		a.assembleCmd(),
		a.publishCmd(),
		a.historyCmd(),
		a.diffCmd(),
		a.deleteCmd(),
	)
	for _, c := range rootCmd.Commands() {
		c.RunE = a.instrument(c.Name(), c.RunE)
	}

	return rootCmd
}

// instrument records the run of a subcommand and writes the metrics textfile when configured
func (a *app) instrument(name string, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := run(cmd, args)
		a.metrics.ObserveCommand(name, time.Since(start), err)

		if path := a.cfg.Metrics.Textfile; path != "" {
			if werr := a.metrics.WriteTextfile(path); werr != nil {
				a.logger.Warn().Err(werr).Str("path", path).Msg("failed to write metrics textfile")
			}
		}
		return err
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.InitConfig(a.env); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, a.stderr)

	a.logger.Debug().Str("env", a.env).Str("command", cmd.Name()).Msg("configuration loaded")
	return nil
}

// schema resolves the optional document type argument, defaulting to tro_post
func (a *app) schema(args []string) (string, error) {
	name := descriptor.TroPostName
	if len(args) > 0 {
		name = args[0]
	}
	if _, err := a.catalog.Lookup(name); err != nil {
		return "", err
	}
	return name, nil
}

func (a *app) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [type]",
		Short: "Print the schema declaration",
		Long:  `Print the schema declaration as JSON, YAML or an indented outline.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.schema(args)
			if err != nil {
				return err
			}
			schema, _ := a.catalog.Lookup(name)

			if format == "" {
				format = a.cfg.Export.Format
			}
			f, err := generator.ParseFormat(format)
			if err != nil {
				return err
			}

			out, err := generator.NewGenerator().Render(schema, f)
			if err != nil {
				return fmt.Errorf("failed to render schema: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, yaml or outline (default from EXPORT_FORMAT)")

	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [type]",
		Short: "Check the schema declaration for structural errors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.schema(args)
			if err != nil {
				return err
			}
			schema, _ := a.catalog.Lookup(name)

			if err := validator.NewValidator(schema).Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d fields)\n", name, len(schema.Fields))
			return nil
		},
	}
}

func (a *app) jsonSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schemas of the JSON-in-text fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), document.PayloadSchemas())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
