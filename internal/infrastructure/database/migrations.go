package database

import (
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations aplica as migrações pendentes no banco de dados
func RunMigrations(migrationsPath string) error {
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	sourceURL := fmt.Sprintf("file://%s", migrationsPath)

	m, err := migrate.New(sourceURL, MigrationURLFromEnv())
	if err != nil {
		return fmt.Errorf("erro ao criar migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	log.Println("Migrações aplicadas com sucesso")
	return nil
}

// RollbackMigration desfaz a última migração aplicada
func RollbackMigration(migrationsPath string) error {
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	sourceURL := fmt.Sprintf("file://%s", migrationsPath)

	m, err := migrate.New(sourceURL, MigrationURLFromEnv())
	if err != nil {
		return fmt.Errorf("erro ao criar migrate: %w", err)
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("erro ao desfazer migração: %w", err)
	}

	log.Println("Migração desfeita com sucesso")
	return nil
}
