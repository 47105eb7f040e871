package contaazul

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/go-resty/resty/v2"
)

// expirySkew é a margem de segurança do refresh preventivo: absorve
// desvio de relógio e a latência da própria request em andamento
const expirySkew = 2 * time.Minute

// tokenResponse representa a resposta do endpoint de token do Conta Azul
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenManager mantém o trio de tokens OAuth de uma company e decide
// quando renovar. O trio renovado é persistido no repositório antes de
// substituir o estado em memória; leituras nunca observam meio-estado
type TokenManager struct {
	companyID string
	repo      company.Repository
	cfg       *Config
	auth      *resty.Client

	mu        sync.Mutex
	loaded    bool
	access    string
	refresh   string
	expiresAt time.Time
}

// NewTokenManager cria um TokenManager para uma company
func NewTokenManager(companyID string, repo company.Repository, cfg *Config) *TokenManager {
	auth := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return &TokenManager{
		companyID: companyID,
		repo:      repo,
		cfg:       cfg,
		auth:      auth,
	}
}

// Load carrega o trio de tokens do banco. Falha com ConfigurationError
// quando a company nunca completou o fluxo de autorização: sem
// refresh_token não há como se recuperar sozinho
func (m *TokenManager) Load(ctx context.Context) error {
	triple, err := m.repo.GetTokens(ctx, m.companyID)
	if err != nil {
		return &ConfigurationError{Missing: fmt.Sprintf("company %s não encontrada: %v", m.companyID, err)}
	}
	if triple.RefreshToken == "" {
		return &ConfigurationError{Missing: "refresh_token da company (fluxo OAuth não concluído)"}
	}
	if triple.AccessToken == "" {
		return &ConfigurationError{Missing: "access_token da company (fluxo OAuth não concluído)"}
	}

	m.mu.Lock()
	m.access = triple.AccessToken
	m.refresh = triple.RefreshToken
	m.expiresAt = triple.ExpiresAt
	m.loaded = true
	m.mu.Unlock()
	return nil
}

// ensureLoaded faz o carregamento preguiçoso no primeiro uso
func (m *TokenManager) ensureLoaded(ctx context.Context) error {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}
	return m.Load(ctx)
}

// AccessToken retorna o bearer token atual
func (m *TokenManager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

// IsExpired verifica se o token expirou ou está dentro da margem de
// segurança de 2 minutos
func (m *TokenManager) IsExpired(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expiresAt.IsZero() {
		return true
	}
	return !now.Before(m.expiresAt.Add(-expirySkew))
}

// Refresh troca o refresh_token por um novo par de tokens no endpoint
// de autorização e persiste o trio renovado. O refresh_token é relido
// do banco antes da troca: outro processo pode ter renovado primeiro e
// invalidado o que está em memória. Falha com AuthorizationExpiredError
// quando o servidor de autorização recusa; não há retry automático
func (m *TokenManager) Refresh(ctx context.Context) error {
	// Reler o trio reduz a janela de corrida entre renovadores
	triple, err := m.repo.GetTokens(ctx, m.companyID)
	if err != nil {
		return &ConfigurationError{Missing: fmt.Sprintf("tokens da company %s: %v", m.companyID, err)}
	}
	if triple.RefreshToken == "" {
		return &ConfigurationError{Missing: "refresh_token da company (fluxo OAuth não concluído)"}
	}

	resp, err := m.auth.R().
		SetContext(ctx).
		SetBasicAuth(m.cfg.ClientID, m.cfg.ClientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": triple.RefreshToken,
		}).
		Post(m.cfg.AuthURL)
	if err != nil {
		return &TransportError{Err: err}
	}
	if resp.StatusCode() >= 400 {
		return &AuthorizationExpiredError{
			Reason: fmt.Sprintf("falha ao renovar token: %d - %s", resp.StatusCode(), resp.String()),
		}
	}

	var data tokenResponse
	if err := decodeJSON(resp.Body(), &data); err != nil {
		return &TransportError{Err: fmt.Errorf("resposta de token inválida: %w", err)}
	}
	if data.RefreshToken == "" {
		// Conta Azul pode omitir o refresh_token quando ele não rotaciona
		data.RefreshToken = triple.RefreshToken
	}
	if data.ExpiresIn <= 0 {
		data.ExpiresIn = 3600
	}

	newTriple := &company.TokenTriple{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
		ExpiresAt:    time.Now().UTC().Add(time.Duration(data.ExpiresIn) * time.Second),
	}

	// Persistir antes de trocar o estado em memória: se a escrita
	// falhar, o token antigo continua valendo para as próximas chamadas
	if err := m.repo.UpdateTokens(ctx, m.companyID, newTriple); err != nil {
		return fmt.Errorf("erro ao salvar tokens renovados: %w", err)
	}

	m.mu.Lock()
	m.access = newTriple.AccessToken
	m.refresh = newTriple.RefreshToken
	m.expiresAt = newTriple.ExpiresAt
	m.loaded = true
	m.mu.Unlock()
	return nil
}
