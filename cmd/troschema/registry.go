package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/internal/infrastructure/database"
	"github.com/asakaida/troschema/internal/repositories/postgres"
	"github.com/asakaida/troschema/internal/services"
	"github.com/asakaida/troschema/internal/services/descriptor"
	"github.com/asakaida/troschema/pkg/cache/memorycache"
	"github.com/spf13/cobra"
)

// withService connects to the registry database and runs fn with a schema service
func (a *app) withService(fn func(svc *services.SchemaService) error) error {
	if err := a.cfg.RequireDatabase(); err != nil {
		return err
	}

	pg, err := database.NewPostgres(&a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pg.Close()

	a.logger.Debug().
		Str("host", a.cfg.Database.Host).
		Int("port", a.cfg.Database.Port).
		Str("database", a.cfg.Database.Database).
		Msg("connected to registry database")

	revisions := memorycache.New[*entities.SchemaRevision](memorycache.Config{
		MaxEntries: a.cfg.Cache.MaxEntries,
		DefaultTTL: a.cfg.Cache.TTL(),
	})
	svc := services.NewSchemaService(postgres.NewPostgresSchemaRepository(pg.DB), revisions, a.logger)

	err = fn(svc)
	a.metrics.ObserveCache("revisions", revisions.Metrics())
	return err
}

func (a *app) publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish [type]",
		Short: "Record the current schema as a revision",
		Long: `Record the current schema rendition as a new revision. Nothing is stored
when it matches the latest revision.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.schema(args)
			if err != nil {
				return err
			}
			schema, _ := a.catalog.Lookup(name)

			return a.withService(func(svc *services.SchemaService) error {
				rev, created, err := svc.Publish(cmd.Context(), schema)
				if err != nil {
					return err
				}
				status := "unchanged"
				if created {
					status = "published"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", status, rev.ID, rev.Checksum)
				return nil
			})
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [type]",
		Short: "List published revisions, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.schema(args)
			if err != nil {
				return err
			}

			return a.withService(func(svc *services.SchemaService) error {
				revs, err := svc.History(cmd.Context(), name)
				if err != nil {
					return err
				}
				writeHistory(cmd, revs)
				return nil
			})
		},
	}
}

func writeHistory(cmd *cobra.Command, revs []*entities.SchemaRevision) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REVISION\tCREATED\tCHECKSUM")
	for _, rev := range revs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", rev.ID, rev.CreatedAt.UTC().Format(time.RFC3339), rev.Checksum[:12])
	}
	w.Flush()
}

func (a *app) diffCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show field changes between two revisions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.catalog.Lookup(name); err != nil {
				return err
			}

			return a.withService(func(svc *services.SchemaService) error {
				changes, err := svc.Diff(cmd.Context(), name, args[0], args[1])
				if err != nil {
					return err
				}
				writeChanges(cmd, changes)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "type", descriptor.TroPostName, "Document type")

	return cmd
}

func writeChanges(cmd *cobra.Command, changes []entities.FieldChange) {
	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, "no changes")
		return
	}
	for _, c := range changes {
		fmt.Fprintf(out, "%-8s %s: %s\n", c.Kind, c.Path, c.Detail)
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [type]",
		Short: "Delete every published revision of a schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.schema(args)
			if err != nil {
				return err
			}

			return a.withService(func(svc *services.SchemaService) error {
				if err := svc.Delete(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s revisions\n", name)
				return nil
			})
		},
	}
}
