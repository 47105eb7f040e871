package main

import (
	"flag"
	"log"

	"github.com/bpoflow/vendas-backend/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	down := flag.Bool("down", false, "desfaz a última migração em vez de aplicar as pendentes")
	path := flag.String("path", "migrations", "diretório com os arquivos de migração")
	flag.Parse()

	if *down {
		if err := database.RollbackMigration(*path); err != nil {
			log.Fatalf("Erro ao desfazer migração: %v", err)
		}
		return
	}

	if err := database.RunMigrations(*path); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}
}
