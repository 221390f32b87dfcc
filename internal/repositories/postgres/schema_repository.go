package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/internal/repositories"
)

// PostgresSchemaRepository implements SchemaRepository using PostgreSQL
type PostgresSchemaRepository struct {
	db *sql.DB
}

// NewPostgresSchemaRepository creates a new PostgreSQL schema repository
func NewPostgresSchemaRepository(db *sql.DB) repositories.SchemaRepository {
	return &PostgresSchemaRepository{db: db}
}

// Create stores a new schema revision
func (r *PostgresSchemaRepository) Create(ctx context.Context, rev *entities.SchemaRevision) error {
	query := `
		INSERT INTO schema_revisions (id, schema_name, checksum, definition, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, rev.ID, rev.SchemaName, rev.Checksum, string(rev.Definition), rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schema revision: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent revision of a schema
func (r *PostgresSchemaRepository) GetLatest(ctx context.Context, schemaName string) (*entities.SchemaRevision, error) {
	query := `
		SELECT id, schema_name, checksum, definition, created_at
		FROM schema_revisions
		WHERE schema_name = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	rev, err := scanRevision(r.db.QueryRowContext(ctx, query, schemaName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schema %s: %w", schemaName, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest schema revision: %w", err)
	}
	return rev, nil
}

// GetByID retrieves a specific revision of a schema
func (r *PostgresSchemaRepository) GetByID(ctx context.Context, schemaName string, id string) (*entities.SchemaRevision, error) {
	query := `
		SELECT id, schema_name, checksum, definition, created_at
		FROM schema_revisions
		WHERE schema_name = $1 AND id = $2
	`
	rev, err := scanRevision(r.db.QueryRowContext(ctx, query, schemaName, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schema %s revision %s: %w", schemaName, id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schema revision: %w", err)
	}
	return rev, nil
}

// List retrieves all revisions of a schema, newest first
func (r *PostgresSchemaRepository) List(ctx context.Context, schemaName string) ([]*entities.SchemaRevision, error) {
	query := `
		SELECT id, schema_name, checksum, definition, created_at
		FROM schema_revisions
		WHERE schema_name = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to list schema revisions: %w", err)
	}
	defer rows.Close()

	var revs []*entities.SchemaRevision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schema revision: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schema revisions: %w", err)
	}

	return revs, nil
}

// Delete deletes all revisions of a schema
func (r *PostgresSchemaRepository) Delete(ctx context.Context, schemaName string) error {
	query := `DELETE FROM schema_revisions WHERE schema_name = $1`
	result, err := r.db.ExecContext(ctx, query, schemaName)
	if err != nil {
		return fmt.Errorf("failed to delete schema revisions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("schema %s: %w", schemaName, repositories.ErrNotFound)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(s scanner) (*entities.SchemaRevision, error) {
	var rev entities.SchemaRevision
	var definition string
	if err := s.Scan(&rev.ID, &rev.SchemaName, &rev.Checksum, &definition, &rev.CreatedAt); err != nil {
		return nil, err
	}
	rev.Definition = []byte(definition)
	return &rev, nil
}
