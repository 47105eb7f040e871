package contaazul

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bpoflow/vendas-backend/internal/domain/company"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenStore implementa company.Repository em memória, guardando
// apenas o trio de tokens de uma company
type fakeTokenStore struct {
	mu      sync.Mutex
	triple  company.TokenTriple
	updates int
}

func (f *fakeTokenStore) GetTokens(ctx context.Context, id string) (*company.TokenTriple, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.triple
	return &t, nil
}

func (f *fakeTokenStore) UpdateTokens(ctx context.Context, id string, t *company.TokenTriple) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triple = *t
	f.updates++
	return nil
}

func (f *fakeTokenStore) Create(ctx context.Context, c *company.Company) error { return nil }
func (f *fakeTokenStore) FindByID(ctx context.Context, id string) (*company.Company, error) {
	return nil, errors.New("não implementado")
}
func (f *fakeTokenStore) FindByName(ctx context.Context, name string) (*company.Company, error) {
	return nil, errors.New("não implementado")
}
func (f *fakeTokenStore) List(ctx context.Context, limit, offset int) ([]*company.Company, error) {
	return nil, nil
}
func (f *fakeTokenStore) Update(ctx context.Context, c *company.Company) error { return nil }
func (f *fakeTokenStore) Delete(ctx context.Context, id string) error          { return nil }
func (f *fakeTokenStore) UpdateFinancialAccount(ctx context.Context, id, financialAccountID string) error {
	return nil
}
func (f *fakeTokenStore) UpdateDefaultItem(ctx context.Context, id, defaultItemID string) error {
	return nil
}
func (f *fakeTokenStore) Count(ctx context.Context) (int, error) { return 0, nil }

// newAuthServer simula o endpoint de token; conta os refreshes
func newAuthServer(t *testing.T, refreshes *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		*refreshes++

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-novo","refresh_token":"refresh-novo","expires_in":3600}`))
	}))
}

func testClient(store *fakeTokenStore, apiURL, authURL string) *Client {
	cfg := &Config{
		APIBaseURL:   apiURL,
		AuthURL:      authURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      5 * time.Second,
	}
	return NewClient("comp-1", store, cfg)
}

func freshStore() *fakeTokenStore {
	return &fakeTokenStore{triple: company.TokenTriple{
		AccessToken:  "token-velho",
		RefreshToken: "refresh-velho",
		ExpiresAt:    time.Now().Add(1 * time.Hour),
	}}
}

func TestIsExpiredWithinSkew(t *testing.T) {
	m := NewTokenManager("comp-1", freshStore(), &Config{Timeout: time.Second})
	now := time.Now()

	m.expiresAt = now.Add(90 * time.Second)
	assert.True(t, m.IsExpired(now), "token a 90s do fim está dentro da margem de 2min")

	m.expiresAt = now.Add(3 * time.Minute)
	assert.False(t, m.IsExpired(now), "token a 3min do fim ainda vale")

	m.expiresAt = time.Time{}
	assert.True(t, m.IsExpired(now), "sem data de expiração é expirado")
}

func TestExecutePreemptiveRefresh(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	var seenToken string
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenToken = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer apiSrv.Close()

	store := freshStore()
	store.triple.ExpiresAt = time.Now().Add(90 * time.Second)

	c := testClient(store, apiSrv.URL, authSrv.URL)
	_, err := c.Execute(context.Background(), http.MethodGet, "/v1/venda", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, refreshes, "token na janela de expiração renova antes da chamada")
	assert.Equal(t, "Bearer token-novo", seenToken)
	assert.Equal(t, 1, store.updates, "trio renovado persiste no repositório")
	assert.Equal(t, "refresh-novo", store.triple.RefreshToken)
}

func TestExecuteRefreshOn401Once(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	calls := 0
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer token-novo" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	res, err := c.Execute(context.Background(), http.MethodGet, "/v1/venda", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, 2, calls, "uma tentativa extra após o refresh")
	assert.Equal(t, 1, refreshes)
}

func TestExecutePersistent401(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	calls := 0
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	_, err := c.Execute(context.Background(), http.MethodGet, "/v1/venda", nil, nil)

	require.Error(t, err)
	assert.True(t, IsAuthorizationExpired(err), "401 persistente exige nova autorização")
	assert.Equal(t, 2, calls, "nunca mais de uma tentativa extra")
	assert.Equal(t, 1, refreshes, "um único refresh por chamada")
}

func TestExecuteRemoteAPIError(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"venda inválida"}`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	_, err := c.Execute(context.Background(), http.MethodPost, "/v1/venda", nil, map[string]string{})

	require.Error(t, err)
	var apiErr *RemoteAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Zero(t, refreshes, "4xx que não seja 401 não dispara refresh")
}

func TestLoadWithoutTokens(t *testing.T) {
	store := &fakeTokenStore{}
	m := NewTokenManager("comp-1", store, &Config{Timeout: time.Second})

	err := m.Load(context.Background())
	require.Error(t, err)
	assert.True(t, IsConfiguration(err), "company sem fluxo OAuth concluído é erro de configuração")
}

func TestRefreshRejectedByAuthServer(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer authSrv.Close()

	store := freshStore()
	m := NewTokenManager("comp-1", store, &Config{
		AuthURL: authSrv.URL, ClientID: "id", ClientSecret: "secret", Timeout: 5 * time.Second,
	})

	err := m.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthorizationExpired(err))
	assert.Zero(t, store.updates, "refresh recusado não toca o repositório")
}

func TestRefreshKeepsRefreshTokenWhenOmitted(t *testing.T) {
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-novo","expires_in":1800}`))
	}))
	defer authSrv.Close()

	store := freshStore()
	m := NewTokenManager("comp-1", store, &Config{
		AuthURL: authSrv.URL, ClientID: "id", ClientSecret: "secret", Timeout: 5 * time.Second,
	})

	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, "refresh-velho", store.triple.RefreshToken, "refresh_token omitido na resposta mantém o atual")
	assert.Equal(t, "token-novo", store.triple.AccessToken)
}

func TestNextSaleNumberPlainText(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/venda/proximo-numero", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(`"157"`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	n, err := c.NextSaleNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 157, n)
}

func TestListFinancialAccountsBareArray(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"c1","nome":"Caixa"},{"id":"c2","nome":"Banco"}]`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	page, err := c.ListFinancialAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, page.TotalItems, "lista pura é normalizada para página única")
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Caixa", page.Items[0].Nome)
}

func TestListFinancialAccountsPagedObject(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalItems":1,"items":[{"id":"c1","nome":"Caixa"}]}`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	page, err := c.ListFinancialAccounts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, page.TotalItems)
	require.Len(t, page.Items, 1)
}

func TestListProducts(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/produtos", r.URL.Path)
		assert.Equal(t, "consulta", r.URL.Query().Get("busca"))
		assert.Equal(t, "1", r.URL.Query().Get("pagina"))
		assert.Equal(t, "50", r.URL.Query().Get("tamanho_pagina"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalItems":1,"items":[{"id":"p1","nome":"Consulta padrão","valor":150.0}]}`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	page, err := c.ListProducts(context.Background(), "consulta", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, "Consulta padrão", page.Items[0].Nome)
}

func TestListProductsBareArray(t *testing.T) {
	refreshes := 0
	authSrv := newAuthServer(t, &refreshes)
	defer authSrv.Close()

	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","nome":"Consulta"},{"id":"p2","nome":"Retorno"}]`))
	}))
	defer apiSrv.Close()

	c := testClient(freshStore(), apiSrv.URL, authSrv.URL)
	page, err := c.ListProducts(context.Background(), "cons", 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, page.TotalItems, "lista pura é normalizada para página única")
	require.Len(t, page.Items, 2)
}
