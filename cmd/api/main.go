package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// @title Vendas Backend API
// @version 1.0
// @description Back-office de importação de vendas e integração com o Conta Azul
// @BasePath /api/v1
func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	// Criar aplicação
	app, err := NewApp()
	if err != nil {
		log.Fatalf("Erro ao inicializar aplicação: %v", err)
	}
	defer app.Close()

	app.SetupRoutes("/api/v1")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Iniciar o servidor
	if err := app.GetRouter().Run(":" + port); err != nil {
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
}
