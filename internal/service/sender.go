package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpoflow/vendas-backend/internal/contaazul"
	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/bpoflow/vendas-backend/internal/domain/customer"
	"github.com/bpoflow/vendas-backend/internal/domain/sale"
	"github.com/bpoflow/vendas-backend/pkg/logger"
)

var errEmptyCustomerName = errors.New("venda sem nome de cliente")

// ContaAzulAPI é o subconjunto do cliente Conta Azul que o envio usa.
// Interface pequena para permitir fakes nos testes
type ContaAzulAPI interface {
	NextSaleNumber(ctx context.Context) (int, error)
	ListPeople(ctx context.Context, nome string) (*contaazul.PeopleList, error)
	CreatePerson(ctx context.Context, nome string) (*contaazul.Person, error)
	CreateSale(ctx context.Context, payload *contaazul.SalePayload) (*contaazul.SaleCreated, error)
}

// ClientFactory cria um cliente Conta Azul escopado em uma company
type ClientFactory func(companyID string) ContaAzulAPI

// BatchSendResult agrega o resultado de um envio em lote
type BatchSendResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Sender envia vendas prontas ao Conta Azul. Cada venda é um resultado
// independente: falha de uma não desfaz nem interrompe as demais
type Sender struct {
	companies company.Repository
	mappings  company.MappingRepository
	sales     sale.Repository
	resolver  *PeopleResolver
	newClient ClientFactory
	log       logger.Logger
}

// NewSender cria um novo Sender
func NewSender(
	companies company.Repository,
	mappings company.MappingRepository,
	sales sale.Repository,
	cache customer.CacheRepository,
	newClient ClientFactory,
	log logger.Logger,
) *Sender {
	return &Sender{
		companies: companies,
		mappings:  mappings,
		sales:     sales,
		resolver:  NewPeopleResolver(cache, log),
		newClient: newClient,
		log:       log,
	}
}

// SendSale envia uma venda ao Conta Azul. Erros de configuração são
// detectados antes de qualquer chamada remota, para não consumir um
// número da sequência de vendas à toa. Qualquer falha é registrada na
// própria venda (status ERRO_ENVIO_CA + resumo) e devolvida ao caller
func (s *Sender) SendSale(ctx context.Context, saleID string) (*sale.Sale, error) {
	v, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if v.Status == sale.StatusSent {
		// Reenvio de venda já enviada é rejeitado: criaria uma venda
		// duplicada no Conta Azul com outro número
		return v, sale.ErrAlreadySent
	}
	if !v.IsSendable() {
		return v, sale.ErrNotSendable
	}

	if err := s.deliver(ctx, v); err != nil {
		v.MarkSendError(err.Error())
		if updateErr := s.sales.Update(ctx, v); updateErr != nil {
			s.log.Error("erro ao registrar falha de envio", "sale_id", v.ID, "error", updateErr)
		}
		return v, err
	}

	if err := s.sales.Update(ctx, v); err != nil {
		return v, fmt.Errorf("erro ao atualizar venda enviada: %w", err)
	}
	return v, nil
}

// deliver faz o envio propriamente dito, mutando a venda em memória
func (s *Sender) deliver(ctx context.Context, v *sale.Sale) error {
	comp, err := s.companies.FindByID(ctx, v.CompanyID)
	if err != nil {
		return fmt.Errorf("erro ao buscar company da venda: %w", err)
	}

	items, err := s.sales.FindItems(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("erro ao buscar itens da venda: %w", err)
	}
	if len(items) == 0 {
		return &contaazul.ConfigurationError{Missing: "itens da venda"}
	}

	// Resolução de configuração antes de qualquer chamada remota
	methodKey := contaazul.NormalizePaymentMethod(v.PaymentMethod)
	accountID, err := s.resolveAccount(ctx, comp, methodKey)
	if err != nil {
		return err
	}
	if comp.DefaultItemID == "" {
		return &contaazul.ConfigurationError{Missing: "item padrão da company (default_item_id)"}
	}

	api := s.newClient(comp.ID)

	customerID, err := s.resolver.Resolve(ctx, api, comp.ID, v.CustomerName)
	if err != nil {
		return err
	}

	number, err := api.NextSaleNumber(ctx)
	if err != nil {
		return err
	}

	payload, err := contaazul.BuildSalePayload(v, items, contaazul.BuildOptions{
		CustomerID:         customerID,
		Number:             number,
		FinancialAccountID: accountID,
		DefaultItemID:      comp.DefaultItemID,
	})
	if err != nil {
		return err
	}

	created, err := api.CreateSale(ctx, payload)
	if err != nil {
		return err
	}

	v.MarkSent(created.ID)
	s.log.Info("venda enviada ao Conta Azul", "sale_id", v.ID, "ca_sale_id", created.ID)
	return nil
}

// resolveAccount aplica a precedência de conta financeira: mapeamento
// específico da forma de pagamento antes da conta padrão da company
func (s *Sender) resolveAccount(ctx context.Context, comp *company.Company, methodKey string) (string, error) {
	mappings := make(map[string]string)
	list, err := s.mappings.FindByCompany(ctx, comp.ID)
	if err == nil {
		for _, m := range list {
			mappings[m.PaymentMethodKey] = m.FinancialAccountID
		}
	}
	return contaazul.ResolveFinancialAccount(mappings, methodKey, comp.FinancialAccountID)
}

// SendBatch envia todas as vendas enviáveis de um batch em ordem
// estável. O loop nunca aborta por falha de uma venda; vendas já
// processadas ficam em estado terminal e um reenvio do batch retoma
// apenas as que continuam enviáveis
func (s *Sender) SendBatch(ctx context.Context, companyID, batchID string) (*BatchSendResult, error) {
	sendable, err := s.sales.ListSendable(ctx, companyID, batchID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar vendas enviáveis: %w", err)
	}

	result := &BatchSendResult{}
	for _, v := range sendable {
		if _, err := s.SendSale(ctx, v.ID); err != nil {
			result.Failed++
			s.log.Warn("falha no envio da venda", "sale_id", v.ID, "error", err)
			continue
		}
		result.Sent++
	}

	return result, nil
}
