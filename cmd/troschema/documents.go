package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/internal/services/descriptor"
	"github.com/asakaida/troschema/internal/services/document"
	"github.com/asakaida/troschema/internal/services/preview"
	"github.com/asakaida/troschema/pkg/cache/memorycache"
	"github.com/google/cel-go/cel"
	"github.com/spf13/cobra"
)

func (a *app) previewCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "preview --file doc.json [type]",
		Short: "Render the list previews of a document",
		Long: `Render the document preview and the preview of every timeline event
of a document stored as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := a.schema(args)
			if err != nil {
				return err
			}
			schema, _ := a.catalog.Lookup(name)

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}
			var doc map[string]any
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse document: %w", err)
			}

			if name == descriptor.TroPostName {
				var post document.TroPost
				if err := json.Unmarshal(data, &post); err != nil {
					return fmt.Errorf("document does not match %s: %w", name, err)
				}
				if err := post.CheckPayloads(); err != nil {
					a.logger.Warn().Err(err).Str("document", post.ID).Msg("payload field does not parse")
				}
			}

			rendered, err := a.render(cmd, schema, doc)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rendered)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the document JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) assembleCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "assemble --file row.json",
		Short: "Build a tro_post document from a crawl row",
		Long: `Build a tro_post document from a crawl row. The row file holds the
extraction, feed and crawl columns as JSON strings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read row: %w", err)
			}
			var row document.Row
			if err := json.Unmarshal(data, &row); err != nil {
				return fmt.Errorf("failed to parse row: %w", err)
			}

			post, err := document.NewAssembler(a.logger).Assemble(row)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), post)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the row JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) render(cmd *cobra.Command, schema *entities.DocumentSchema, doc map[string]any) (*preview.DocumentPreview, error) {
	programs := memorycache.New[cel.Program](memorycache.Config{
		MaxEntries: a.cfg.Cache.MaxEntries,
		DefaultTTL: a.cfg.Cache.TTL(),
	})
	selector, err := preview.NewSelector(programs)
	if err != nil {
		return nil, err
	}

	rendered, err := selector.RenderDocument(cmd.Context(), schema, doc)
	if err != nil {
		return nil, err
	}

	m := programs.Metrics()
	a.metrics.ObserveCache("preview_programs", m)
	a.logger.Debug().
		Uint64("hits", m.Hits).
		Uint64("misses", m.Misses).
		Msg("preview program cache")

	return rendered, nil
}
