package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpoflow/vendas-backend/internal/contaazul"
	"github.com/bpoflow/vendas-backend/internal/domain/batch"
	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/bpoflow/vendas-backend/internal/domain/customer"
	"github.com/bpoflow/vendas-backend/internal/domain/sale"
)

// Fakes em memória dos repositórios, compartilhados pelos testes do
// pacote

type fakeCompanyRepo struct {
	companies map[string]*company.Company
}

func newFakeCompanyRepo(comps ...*company.Company) *fakeCompanyRepo {
	r := &fakeCompanyRepo{companies: make(map[string]*company.Company)}
	for _, c := range comps {
		r.companies[c.ID] = c
	}
	return r
}

func (r *fakeCompanyRepo) Create(ctx context.Context, c *company.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *fakeCompanyRepo) FindByID(ctx context.Context, id string) (*company.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, errors.New("company não encontrada")
	}
	return c, nil
}

func (r *fakeCompanyRepo) FindByName(ctx context.Context, name string) (*company.Company, error) {
	for _, c := range r.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, errors.New("company não encontrada")
}

func (r *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]*company.Company, error) {
	return nil, nil
}

func (r *fakeCompanyRepo) Update(ctx context.Context, c *company.Company) error { return nil }
func (r *fakeCompanyRepo) Delete(ctx context.Context, id string) error          { return nil }

func (r *fakeCompanyRepo) GetTokens(ctx context.Context, id string) (*company.TokenTriple, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, errors.New("company não encontrada")
	}
	triple := &company.TokenTriple{AccessToken: c.AccessToken, RefreshToken: c.RefreshToken}
	if c.TokenExpiresAt != nil {
		triple.ExpiresAt = *c.TokenExpiresAt
	}
	return triple, nil
}

func (r *fakeCompanyRepo) UpdateTokens(ctx context.Context, id string, t *company.TokenTriple) error {
	c, ok := r.companies[id]
	if !ok {
		return errors.New("company não encontrada")
	}
	c.SetTokens(t.AccessToken, t.RefreshToken, t.ExpiresAt)
	return nil
}

func (r *fakeCompanyRepo) UpdateFinancialAccount(ctx context.Context, id, financialAccountID string) error {
	return nil
}

func (r *fakeCompanyRepo) UpdateDefaultItem(ctx context.Context, id, defaultItemID string) error {
	return nil
}

func (r *fakeCompanyRepo) Count(ctx context.Context) (int, error) {
	return len(r.companies), nil
}

type fakeSaleRepo struct {
	sales map[string]*sale.Sale
	items map[string][]*sale.SaleItem
	order []string
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales: make(map[string]*sale.Sale),
		items: make(map[string][]*sale.SaleItem),
	}
}

func (r *fakeSaleRepo) Create(ctx context.Context, s *sale.Sale, items []*sale.SaleItem) error {
	for _, existing := range r.sales {
		if existing.CompanyID == s.CompanyID && existing.BatchID == s.BatchID && existing.HashUnique == s.HashUnique {
			return errors.New("venda com mesmo hash já existe no batch")
		}
	}
	r.sales[s.ID] = s
	r.items[s.ID] = items
	r.order = append(r.order, s.ID)
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id string) (*sale.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("venda não encontrada")
	}
	return s, nil
}

func (r *fakeSaleRepo) FindItems(ctx context.Context, saleID string) ([]*sale.SaleItem, error) {
	return r.items[saleID], nil
}

func (r *fakeSaleRepo) List(ctx context.Context, f sale.Filter) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, id := range r.order {
		s := r.sales[id]
		if f.CompanyID != "" && s.CompanyID != f.CompanyID {
			continue
		}
		if f.BatchID != "" && s.BatchID != f.BatchID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSaleRepo) ExistsByHash(ctx context.Context, companyID, batchID, hashUnique string) (bool, error) {
	for _, s := range r.sales {
		if s.CompanyID == companyID && s.BatchID == batchID && s.HashUnique == hashUnique {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSaleRepo) ListSendable(ctx context.Context, companyID, batchID string) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, id := range r.order {
		s := r.sales[id]
		if s.CompanyID == companyID && s.BatchID == batchID && s.IsSendable() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Update(ctx context.Context, s *sale.Sale) error {
	if _, ok := r.sales[s.ID]; !ok {
		return errors.New("venda não encontrada")
	}
	r.sales[s.ID] = s
	return nil
}

func (r *fakeSaleRepo) inOrder() []*sale.Sale {
	out := make([]*sale.Sale, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sales[id])
	}
	return out
}

type fakeBatchRepo struct {
	batches map[string]*batch.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: make(map[string]*batch.Batch)}
}

func (r *fakeBatchRepo) Create(ctx context.Context, b *batch.Batch) error {
	r.batches[b.ID] = b
	return nil
}

func (r *fakeBatchRepo) FindByID(ctx context.Context, id string) (*batch.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, errors.New("batch não encontrado")
	}
	return b, nil
}

func (r *fakeBatchRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*batch.Batch, error) {
	var out []*batch.Batch
	for _, b := range r.batches {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) UpdateStatus(ctx context.Context, id string, status batch.Status) error {
	b, ok := r.batches[id]
	if !ok {
		return errors.New("batch não encontrado")
	}
	b.Status = status
	return nil
}

type fakeMappingRepo struct {
	mappings map[string][]*company.AccountMapping
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{mappings: make(map[string][]*company.AccountMapping)}
}

func (r *fakeMappingRepo) Upsert(ctx context.Context, m *company.AccountMapping) error {
	for i, existing := range r.mappings[m.CompanyID] {
		if existing.PaymentMethodKey == m.PaymentMethodKey {
			r.mappings[m.CompanyID][i] = m
			return nil
		}
	}
	r.mappings[m.CompanyID] = append(r.mappings[m.CompanyID], m)
	return nil
}

func (r *fakeMappingRepo) FindByCompany(ctx context.Context, companyID string) ([]*company.AccountMapping, error) {
	return r.mappings[companyID], nil
}

func (r *fakeMappingRepo) FindByMethod(ctx context.Context, companyID, paymentMethodKey string) (*company.AccountMapping, error) {
	for _, m := range r.mappings[companyID] {
		if m.PaymentMethodKey == paymentMethodKey {
			return m, nil
		}
	}
	return nil, errors.New("mapeamento não encontrado")
}

func (r *fakeMappingRepo) Delete(ctx context.Context, companyID, paymentMethodKey string) error {
	return nil
}

type fakeCacheRepo struct {
	entries    map[string]*customer.CacheEntry
	upserts    int
	failUpsert error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]*customer.CacheEntry)}
}

func (r *fakeCacheRepo) key(companyID, nameKey string) string {
	return companyID + "|" + nameKey
}

func (r *fakeCacheRepo) Find(ctx context.Context, companyID, nameKey string) (*customer.CacheEntry, error) {
	e, ok := r.entries[r.key(companyID, nameKey)]
	if !ok {
		return nil, errors.New("entrada não encontrada")
	}
	return e, nil
}

func (r *fakeCacheRepo) Upsert(ctx context.Context, e *customer.CacheEntry) error {
	if r.failUpsert != nil {
		return r.failUpsert
	}
	r.entries[r.key(e.CompanyID, e.NameKey)] = e
	r.upserts++
	return nil
}

// fakeContaAzulAPI simula a API do Conta Azul com contadores de chamada
type fakeContaAzulAPI struct {
	people       []contaazul.Person
	nextNumber   int
	failCreate   error
	failOnCall   int
	listCalls    int
	createPerson int
	numberCalls  int
	saleCalls    int
	lastPayload  *contaazul.SalePayload
}

func (a *fakeContaAzulAPI) NextSaleNumber(ctx context.Context) (int, error) {
	a.numberCalls++
	a.nextNumber++
	return a.nextNumber, nil
}

func (a *fakeContaAzulAPI) ListPeople(ctx context.Context, nome string) (*contaazul.PeopleList, error) {
	a.listCalls++
	var matches []contaazul.Person
	for _, p := range a.people {
		matches = append(matches, p)
	}
	return &contaazul.PeopleList{TotalItems: len(matches), Items: matches}, nil
}

func (a *fakeContaAzulAPI) CreatePerson(ctx context.Context, nome string) (*contaazul.Person, error) {
	a.createPerson++
	p := contaazul.Person{ID: fmt.Sprintf("pessoa-%d", a.createPerson), Nome: nome}
	a.people = append(a.people, p)
	return &p, nil
}

func (a *fakeContaAzulAPI) CreateSale(ctx context.Context, payload *contaazul.SalePayload) (*contaazul.SaleCreated, error) {
	a.saleCalls++
	a.lastPayload = payload
	if a.failCreate != nil && (a.failOnCall == 0 || a.failOnCall == a.saleCalls) {
		return nil, a.failCreate
	}
	return &contaazul.SaleCreated{ID: fmt.Sprintf("ca-venda-%d", a.saleCalls), Numero: payload.Numero}, nil
}
