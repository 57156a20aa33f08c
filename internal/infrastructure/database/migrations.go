package database

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunTenantMigrations aplica as migrações fiscais no schema de um tenant.
// O schema é criado se ainda não existir.
func RunTenantMigrations(db *pgxpool.Pool, schema string) error {
	ctx := context.Background()

	if _, err := db.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("erro ao criar schema: %w", err)
	}

	cfg := NewPostgresConfigFromEnv()
	dbURL := fmt.Sprintf("%s&search_path=%s,public", cfg.URL(), schema)

	migrationsPath := filepath.Join("migrations", "tenant")
	sourceURL := fmt.Sprintf("file://%s", migrationsPath)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return fmt.Errorf("erro ao criar migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	log.Printf("Migrações aplicadas com sucesso no schema %s", schema)
	return nil
}

// ListTenantSchemas retorna os schemas de todos os tenants ativos
func ListTenantSchemas(ctx context.Context, db *pgxpool.Pool) ([]string, error) {
	rows, err := db.Query(ctx, "SELECT schema FROM public.tenants WHERE status = 'active'")
	if err != nil {
		return nil, fmt.Errorf("erro ao listar schemas de tenants: %w", err)
	}
	defer rows.Close()

	schemas := []string{}
	for rows.Next() {
		var schema string
		if err := rows.Scan(&schema); err != nil {
			return nil, fmt.Errorf("erro ao ler schema de tenant: %w", err)
		}
		schemas = append(schemas, schema)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer schemas de tenants: %w", err)
	}

	return schemas, nil
}
