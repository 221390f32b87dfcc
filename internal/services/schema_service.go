package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/internal/repositories"
	"github.com/asakaida/troschema/internal/services/generator"
	"github.com/asakaida/troschema/internal/services/validator"
	"github.com/asakaida/troschema/pkg/cache"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrSchemaNotFound is returned when no revision exists for the requested schema or id
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrInvalidSchema is returned when a schema fails validation before publishing
	ErrInvalidSchema = errors.New("invalid schema")
)

// SchemaServiceInterface defines the interface for schema revision operations
type SchemaServiceInterface interface {
	Publish(ctx context.Context, schema *entities.DocumentSchema) (*entities.SchemaRevision, bool, error)
	Latest(ctx context.Context, schemaName string) (*entities.SchemaRevision, error)
	Revision(ctx context.Context, schemaName string, id string) (*entities.SchemaRevision, error)
	History(ctx context.Context, schemaName string) ([]*entities.SchemaRevision, error)
	Diff(ctx context.Context, schemaName string, fromID string, toID string) ([]entities.FieldChange, error)
	Delete(ctx context.Context, schemaName string) error
}

// SchemaService records published schema renditions
type SchemaService struct {
	schemaRepo repositories.SchemaRepository
	generator  *generator.Generator
	revisions  cache.Cache[*entities.SchemaRevision] // nil disables caching
	logger     zerolog.Logger
	now        func() time.Time
}

var _ SchemaServiceInterface = (*SchemaService)(nil)

// NewSchemaService creates a new SchemaService. revisions may be nil.
func NewSchemaService(
	schemaRepo repositories.SchemaRepository,
	revisions cache.Cache[*entities.SchemaRevision],
	logger zerolog.Logger,
) *SchemaService {
	return &SchemaService{
		schemaRepo: schemaRepo,
		generator:  generator.NewGenerator(),
		revisions:  revisions,
		logger:     logger,
		now:        time.Now,
	}
}

// Publish validates the schema and records its JSON rendition. When the latest
// revision already has the same checksum it is returned with created=false.
func (s *SchemaService) Publish(ctx context.Context, schema *entities.DocumentSchema) (*entities.SchemaRevision, bool, error) {
	if schema == nil {
		return nil, false, fmt.Errorf("%w: schema is nil", ErrInvalidSchema)
	}

	if err := validator.NewValidator(schema).Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	definition, err := s.generator.JSON(schema)
	if err != nil {
		return nil, false, fmt.Errorf("failed to render schema: %w", err)
	}
	checksum, err := s.generator.Checksum(schema)
	if err != nil {
		return nil, false, fmt.Errorf("failed to checksum schema: %w", err)
	}

	latest, err := s.schemaRepo.GetLatest(ctx, schema.Name)
	switch {
	case err == nil && latest.Checksum == checksum:
		s.logger.Info().
			Str("schema", schema.Name).
			Str("revision", latest.ID).
			Msg("schema unchanged, keeping latest revision")
		return latest, false, nil
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, false, fmt.Errorf("failed to get latest revision: %w", err)
	}

	rev := &entities.SchemaRevision{
		ID:         uuid.NewString(),
		SchemaName: schema.Name,
		Checksum:   checksum,
		Definition: definition,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.schemaRepo.Create(ctx, rev); err != nil {
		return nil, false, fmt.Errorf("failed to create schema revision: %w", err)
	}
	s.cacheRevision(ctx, rev)

	s.logger.Info().
		Str("schema", rev.SchemaName).
		Str("revision", rev.ID).
		Str("checksum", rev.Checksum).
		Msg("published schema revision")

	return rev, true, nil
}

// Latest retrieves the most recent revision of a schema
func (s *SchemaService) Latest(ctx context.Context, schemaName string) (*entities.SchemaRevision, error) {
	if schemaName == "" {
		return nil, fmt.Errorf("schema name is required")
	}

	rev, err := s.schemaRepo.GetLatest(ctx, schemaName)
	if err != nil {
		return nil, notFound(err, "failed to get latest revision")
	}
	return rev, nil
}

// Revision retrieves a specific revision, consulting the cache first
func (s *SchemaService) Revision(ctx context.Context, schemaName string, id string) (*entities.SchemaRevision, error) {
	if schemaName == "" || id == "" {
		return nil, fmt.Errorf("schema name and revision id are required")
	}

	if s.revisions != nil {
		if rev, ok := s.revisions.Get(ctx, revisionKey(schemaName, id)); ok {
			return rev, nil
		}
	}

	rev, err := s.schemaRepo.GetByID(ctx, schemaName, id)
	if err != nil {
		return nil, notFound(err, "failed to get revision")
	}
	s.cacheRevision(ctx, rev)

	return rev, nil
}

// History lists all revisions of a schema, newest first
func (s *SchemaService) History(ctx context.Context, schemaName string) ([]*entities.SchemaRevision, error) {
	if schemaName == "" {
		return nil, fmt.Errorf("schema name is required")
	}

	revs, err := s.schemaRepo.List(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaName)
	}
	return revs, nil
}

// Diff reports the field changes between two revisions of a schema
func (s *SchemaService) Diff(ctx context.Context, schemaName string, fromID string, toID string) ([]entities.FieldChange, error) {
	from, err := s.Revision(ctx, schemaName, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.Revision(ctx, schemaName, toID)
	if err != nil {
		return nil, err
	}

	changes, err := generator.DiffJSON(from.Definition, to.Definition)
	if err != nil {
		return nil, fmt.Errorf("failed to diff revisions: %w", err)
	}
	return changes, nil
}

// Delete removes every revision of a schema
func (s *SchemaService) Delete(ctx context.Context, schemaName string) error {
	if schemaName == "" {
		return fmt.Errorf("schema name is required")
	}

	if err := s.schemaRepo.Delete(ctx, schemaName); err != nil {
		return notFound(err, "failed to delete schema")
	}

	if s.revisions != nil {
		if err := s.revisions.Clear(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear revision cache")
		}
	}

	s.logger.Info().Str("schema", schemaName).Msg("deleted schema revisions")
	return nil
}

func (s *SchemaService) cacheRevision(ctx context.Context, rev *entities.SchemaRevision) {
	if s.revisions == nil {
		return
	}
	if err := s.revisions.Set(ctx, revisionKey(rev.SchemaName, rev.ID), rev, 0); err != nil {
		s.logger.Warn().Err(err).Str("revision", rev.ID).Msg("failed to cache revision")
	}
}

func revisionKey(schemaName, id string) string {
	return schemaName + "/" + id
}

func notFound(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrSchemaNotFound, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
