package contaazul

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/go-resty/resty/v2"
)

// maxAttempts limita a request a no máximo uma tentativa extra após o
// refresh disparado por 401
const maxAttempts = 2

// Client é o executor de requests contra a API do Conta Azul. Toda
// chamada passa por Execute: refresh preventivo quando o token está na
// janela de expiração e refresh reativo com exatamente um retry quando
// a API devolve 401. Sem backoff e sem cache além disso: o volume de
// requests é baixo e o loop de envio em lote é a fronteira de retry
type Client struct {
	tokens *TokenManager
	rest   *resty.Client
	now    func() time.Time
}

// Result carrega a resposta crua de uma chamada à API
type Result struct {
	Status      int
	Body        []byte
	ContentType string
}

// IsJSON verifica se o corpo da resposta é JSON estruturado
func (r *Result) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "application/json")
}

// Text retorna o corpo como texto puro (algumas rotas do Conta Azul
// devolvem um número sem envelope JSON)
func (r *Result) Text() string {
	return strings.TrimSpace(string(r.Body))
}

// NewClient cria um cliente Conta Azul para uma company
func NewClient(companyID string, repo company.Repository, cfg *Config) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		tokens: NewTokenManager(companyID, repo, cfg),
		rest:   rest,
		now:    time.Now,
	}
}

// Execute realiza uma chamada autenticada contra a API.
// Política fixa: refresh preventivo, no máximo 2 tentativas, um único
// refresh no 401; 401 persistente é fatal para a company
func (c *Client) Execute(ctx context.Context, method, path string, query map[string]string, body interface{}) (*Result, error) {
	if err := c.tokens.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if c.tokens.IsExpired(c.now()) {
		if err := c.tokens.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req := c.rest.R().
			SetContext(ctx).
			SetAuthToken(c.tokens.AccessToken())
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		if body != nil {
			req.SetBody(body)
		}

		resp, err := req.Execute(strings.ToUpper(method), path)
		if err != nil {
			return nil, &TransportError{Err: err}
		}

		if resp.StatusCode() == http.StatusUnauthorized {
			if attempt < maxAttempts {
				// Token invalidado antes do previsto: renova e tenta 1x
				if err := c.tokens.Refresh(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, &AuthorizationExpiredError{Reason: "401 persistiu após refresh"}
		}

		if resp.StatusCode() >= 400 {
			return nil, &RemoteAPIError{Status: resp.StatusCode(), Body: resp.String()}
		}

		return &Result{
			Status:      resp.StatusCode(),
			Body:        resp.Body(),
			ContentType: resp.Header().Get("Content-Type"),
		}, nil
	}

	// inalcançável: o loop sempre retorna na segunda tentativa
	return nil, &AuthorizationExpiredError{Reason: "tentativas esgotadas"}
}

// decodeJSON desserializa validando campos na fronteira da API
func decodeJSON(body []byte, v interface{}) error {
	return json.Unmarshal(body, v)
}

// ---------------- Endpoints ----------------

// NextSaleNumber busca o próximo número de venda disponível. A rota
// devolve o número puro, como texto ou escalar JSON
func (c *Client) NextSaleNumber(ctx context.Context) (int, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/v1/venda/proximo-numero", nil, nil)
	if err != nil {
		return 0, err
	}

	raw := strings.Trim(res.Text(), `"`)
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return 0, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta inesperada do próximo número: %q", res.Text())}
	}
	return n, nil
}

// ListPeople busca pessoas pelo nome com perfil de cliente
func (c *Client) ListPeople(ctx context.Context, nome string) (*PeopleList, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/v1/pessoas", map[string]string{
		"nome":        nome,
		"tipo_perfil": "Cliente",
	}, nil)
	if err != nil {
		return nil, err
	}

	var list PeopleList
	if err := decodeJSON(res.Body, &list); err != nil {
		return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de pessoas inválida: %v", err)}
	}
	return &list, nil
}

// CreatePerson cria uma pessoa física com perfil de cliente
func (c *Client) CreatePerson(ctx context.Context, nome string) (*Person, error) {
	payload := map[string]interface{}{
		"nome":        nome,
		"tipo_pessoa": "Física",
		"perfis":      []map[string]string{{"tipo_perfil": "Cliente"}},
		"ativo":       true,
	}

	res, err := c.Execute(ctx, http.MethodPost, "/v1/pessoas", nil, payload)
	if err != nil {
		return nil, err
	}

	var p Person
	if err := decodeJSON(res.Body, &p); err != nil {
		return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de criação de pessoa inválida: %v", err)}
	}
	if p.ID == "" {
		return nil, &RemoteAPIError{Status: res.Status, Body: "pessoa criada sem id na resposta"}
	}
	return &p, nil
}

// ListFinancialAccounts lista as contas financeiras da company.
// Versões da API divergem entre lista pura e objeto paginado; aqui o
// contrato é normalizado: lista pura vira uma página única
func (c *Client) ListFinancialAccounts(ctx context.Context) (*FinancialAccountPage, error) {
	res, err := c.Execute(ctx, http.MethodGet, "/v1/conta-financeira", nil, nil)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(string(res.Body))
	if strings.HasPrefix(body, "[") {
		var items []FinancialAccount
		if err := decodeJSON(res.Body, &items); err != nil {
			return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de contas financeiras inválida: %v", err)}
		}
		return &FinancialAccountPage{TotalItems: len(items), Items: items}, nil
	}

	var page FinancialAccountPage
	if err := decodeJSON(res.Body, &page); err != nil {
		return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de contas financeiras inválida: %v", err)}
	}
	if page.TotalItems == 0 {
		page.TotalItems = len(page.Items)
	}
	return &page, nil
}

// ListProducts busca produtos/serviços do inventário pelo texto de
// busca. Mesma normalização da listagem de contas financeiras: lista
// pura vira uma página única
func (c *Client) ListProducts(ctx context.Context, busca string, pagina, tamanhoPagina int) (*ProductPage, error) {
	if pagina < 1 {
		pagina = 1
	}
	if tamanhoPagina < 1 {
		tamanhoPagina = 50
	}

	res, err := c.Execute(ctx, http.MethodGet, "/v1/produtos", map[string]string{
		"busca":          busca,
		"pagina":         strconv.Itoa(pagina),
		"tamanho_pagina": strconv.Itoa(tamanhoPagina),
	}, nil)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(string(res.Body))
	if strings.HasPrefix(body, "[") {
		var items []Product
		if err := decodeJSON(res.Body, &items); err != nil {
			return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de produtos inválida: %v", err)}
		}
		return &ProductPage{TotalItems: len(items), Items: items}, nil
	}

	var page ProductPage
	if err := decodeJSON(res.Body, &page); err != nil {
		return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de produtos inválida: %v", err)}
	}
	if page.TotalItems == 0 {
		page.TotalItems = len(page.Items)
	}
	return &page, nil
}

// CreateSale cria a venda no Conta Azul
func (c *Client) CreateSale(ctx context.Context, payload *SalePayload) (*SaleCreated, error) {
	res, err := c.Execute(ctx, http.MethodPost, "/v1/venda", nil, payload)
	if err != nil {
		return nil, err
	}

	var created SaleCreated
	if err := decodeJSON(res.Body, &created); err != nil {
		return nil, &RemoteAPIError{Status: res.Status, Body: fmt.Sprintf("resposta de criação de venda inválida: %v", err)}
	}
	return &created, nil
}
