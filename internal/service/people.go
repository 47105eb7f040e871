package service

import (
	"context"
	"strings"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/customer"
	"github.com/bpoflow/vendas-backend/pkg/logger"
)

// PeopleResolver resolve o nome de um cliente da planilha para o UUID
// da pessoa no Conta Azul, com cache por company para não repetir a
// busca/criação a cada envio
type PeopleResolver struct {
	cache customer.CacheRepository
	log   logger.Logger
}

// NewPeopleResolver cria um novo PeopleResolver
func NewPeopleResolver(cache customer.CacheRepository, log logger.Logger) *PeopleResolver {
	return &PeopleResolver{cache: cache, log: log}
}

// Resolve busca o cliente no cache e, na falta, na API: primeiro
// tenta match exato de nome (case-insensitive), depois o primeiro
// candidato parecido, e por fim cria a pessoa. O resultado é gravado
// no cache; entradas nunca são removidas por este fluxo
func (p *PeopleResolver) Resolve(ctx context.Context, api ContaAzulAPI, companyID, customerName string) (string, error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return "", errEmptyCustomerName
	}

	key := customer.NormalizeNameKey(name)
	if entry, err := p.cache.Find(ctx, companyID, key); err == nil && entry != nil {
		return entry.CaCustomerID, nil
	}

	id, err := p.lookupOrCreate(ctx, api, name)
	if err != nil {
		return "", err
	}

	now := time.Now()
	// Falha de cache não impede o envio, mas precisa aparecer no log
	if err := p.cache.Upsert(ctx, &customer.CacheEntry{
		CompanyID:    companyID,
		NameKey:      key,
		CaCustomerID: id,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		p.log.Warn("falha ao gravar cache de cliente", "company_id", companyID, "cliente", name, "error", err)
	}

	return id, nil
}

func (p *PeopleResolver) lookupOrCreate(ctx context.Context, api ContaAzulAPI, name string) (string, error) {
	list, err := api.ListPeople(ctx, name)
	if err != nil {
		return "", err
	}

	for _, person := range list.Items {
		if strings.EqualFold(strings.TrimSpace(person.Nome), name) {
			return person.ID, nil
		}
	}
	// A API devolve parecidos quando não há match exato
	if len(list.Items) > 0 {
		return list.Items[0].ID, nil
	}

	created, err := api.CreatePerson(ctx, name)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
