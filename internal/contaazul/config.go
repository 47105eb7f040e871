package contaazul

import (
	"os"
	"time"
)

// Config contém as configurações do cliente Conta Azul. As credenciais
// de client OAuth são por processo; os tokens são por company
type Config struct {
	APIBaseURL   string
	AuthURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// NewConfigFromEnv cria a configuração a partir de variáveis de ambiente
func NewConfigFromEnv() (*Config, error) {
	clientID := os.Getenv("CA_CLIENT_ID")
	clientSecret := os.Getenv("CA_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, &ConfigurationError{Missing: "CA_CLIENT_ID ou CA_CLIENT_SECRET"}
	}

	return &Config{
		APIBaseURL:   getEnv("CA_API_BASE_URL", "https://api-v2.contaazul.com"),
		AuthURL:      getEnv("CA_AUTH_URL", "https://auth.contaazul.com/oauth2/token"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Timeout:      30 * time.Second,
	}, nil
}

// getEnv retorna o valor da variável de ambiente ou o valor padrão
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
