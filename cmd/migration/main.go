package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hugohenrick/pdv-fiscal/internal/infrastructure/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Criar conexão com o banco
	db, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Erro ao conectar com o banco de dados: %v", err)
	}
	defer db.Close()

	// Criar as tabelas públicas (registro de tenants)
	if err := createPublicTables(db); err != nil {
		log.Fatalf("Erro ao criar tabelas públicas: %v", err)
	}

	// Aplicar as migrações fiscais no schema de cada tenant ativo
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	schemas, err := database.ListTenantSchemas(ctx, db)
	if err != nil {
		log.Fatalf("Erro ao listar tenants: %v", err)
	}
	if len(schemas) == 0 {
		log.Println("Nenhum tenant ativo encontrado; apenas as tabelas públicas foram criadas")
		return
	}

	for _, schema := range schemas {
		if err := database.RunTenantMigrations(db, schema); err != nil {
			log.Fatalf("Erro ao migrar schema %s: %v", schema, err)
		}
	}

	log.Println("Migrações executadas com sucesso!")
}

func createPublicTables(db *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("erro ao obter conexão: %w", err)
	}
	defer conn.Release()

	query := `
		CREATE TABLE IF NOT EXISTS public.tenants (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			document VARCHAR(20) UNIQUE NOT NULL,
			status VARCHAR(20) NOT NULL,
			schema VARCHAR(50) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tenants_status ON public.tenants(status);
	`
	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("erro ao criar tabela de tenants: %w", err)
	}

	return nil
}
