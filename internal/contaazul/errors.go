package contaazul

import (
	"errors"
	"fmt"
)

// ConfigurationError indica que a company não tem a configuração
// necessária (tokens, conta financeira, item padrão). Não é retryável:
// a correção é feita pelo operador no painel
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuração ausente: %s", e.Missing)
}

// AuthorizationExpiredError indica que o refresh_token foi revogado ou
// expirou, ou que o 401 persistiu após um refresh. A única recuperação
// é refazer o fluxo de autorização no Conta Azul
type AuthorizationExpiredError struct {
	Reason string
}

func (e *AuthorizationExpiredError) Error() string {
	return fmt.Sprintf("autorização expirada, refaça o fluxo OAuth: %s", e.Reason)
}

// RemoteAPIError indica uma resposta 4xx/5xx (exceto 401) da API do
// Conta Azul. Carrega o status e o corpo para diagnóstico
type RemoteAPIError struct {
	Status int
	Body   string
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("Conta Azul API erro %d: %s", e.Status, e.Body)
}

// TransportError indica falha de rede (timeout, conexão recusada).
// Esta camada não faz retry; o loop de envio em lote é a fronteira
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("falha de rede ao chamar Conta Azul: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsConfiguration verifica se o erro é de configuração ausente
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsAuthorizationExpired verifica se o erro exige nova autorização
func IsAuthorizationExpired(err error) bool {
	var target *AuthorizationExpiredError
	return errors.As(err, &target)
}

// IsRemoteAPI verifica se o erro veio da API remota
func IsRemoteAPI(err error) bool {
	var target *RemoteAPIError
	return errors.As(err, &target)
}
