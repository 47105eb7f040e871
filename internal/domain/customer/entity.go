package customer

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CacheEntry associa o nome normalizado de um cliente ao UUID da pessoa
// no Conta Azul, evitando buscar/criar a pessoa a cada envio.
// Entradas são criadas no primeiro resolve e atualizadas nos seguintes;
// nunca são removidas pelo fluxo de envio
type CacheEntry struct {
	CompanyID    string    `json:"company_id"`
	NameKey      string    `json:"name_key"`
	CaCustomerID string    `json:"ca_customer_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeNameKey normaliza um nome de cliente para servir de chave de
// cache: remove acentos, converte para maiúsculas e colapsa espaços
func NormalizeNameKey(name string) string {
	s, _, err := transform.String(stripAccents, name)
	if err != nil {
		s = name
	}
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}
