package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asakaida/troschema/internal/infrastructure/config"
)

func TestPostgres_Close(t *testing.T) {
	tests := []struct {
		name    string
		pg      *Postgres
		wantErr bool
	}{
		{
			name:    "nil DB",
			pg:      &Postgres{DB: nil},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pg.Close()
			if (err != nil) != tt.wantErr {
				t.Errorf("Postgres.Close() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPostgres_InvalidConfig(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     99999,
		User:     "invalid",
		Password: "invalid",
		Database: "invalid",
		SSLMode:  "disable",
	}

	pg, err := NewPostgres(cfg)
	if err == nil {
		if pg != nil && pg.DB != nil {
			pg.Close()
		}
		t.Error("NewPostgres() with invalid config should return error")
	}
}

func TestMigrationFiles(t *testing.T) {
	dir := filepath.Join("migrations", "postgres")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read migrations: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatal("no up migrations found")
	}
	for version := range ups {
		if !downs[version] {
			t.Errorf("migration %s has no down file", version)
		}
	}
	if !strings.HasSuffix(filepath.ToSlash(MigrationsDir), "database/migrations/postgres") {
		t.Errorf("MigrationsDir = %s", MigrationsDir)
	}
}
