package repositories

import (
	"context"

	"github.com/asakaida/troschema/internal/entities"
)

// SchemaRepository defines the interface for schema revision data access
type SchemaRepository interface {
	// Create stores a new revision. ID and CreatedAt are set by the caller.
	Create(ctx context.Context, rev *entities.SchemaRevision) error

	// GetLatest retrieves the most recent revision of a schema
	GetLatest(ctx context.Context, schemaName string) (*entities.SchemaRevision, error)

	// GetByID retrieves a specific revision of a schema
	GetByID(ctx context.Context, schemaName string, id string) (*entities.SchemaRevision, error)

	// List retrieves all revisions of a schema, newest first
	List(ctx context.Context, schemaName string) ([]*entities.SchemaRevision, error)

	// Delete deletes all revisions of a schema
	Delete(ctx context.Context, schemaName string) error
}
