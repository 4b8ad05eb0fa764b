package unitel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Aru0077/elife-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Get(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

type memCatalog struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCatalog() *memCatalog {
	return &memCatalog{data: make(map[string][]byte)}
}

func (m *memCatalog) Get(ctx context.Context, kind, openid, msisdn string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[kind+":"+openid+":"+msisdn], nil
}

func (m *memCatalog) Set(ctx context.Context, kind, openid, msisdn string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[kind+":"+openid+":"+msisdn] = payload
	return nil
}

const serviceTypesBody = `{
	"servicetype": "PREPAID",
	"result": "success",
	"service": {
		"name": "prepaid",
		"cards": {
			"day": [{"code": "SD5000", "name": "Энгийн 5000", "eng_name": "Simple 5000", "price": 5000, "unit": 5000}],
			"noday": [],
			"special": []
		},
		"data": {
			"data": [{"code": "data3gb2d", "name": "3GB", "price": 3000, "data": "3GB", "days": 2}],
			"days": [],
			"entertainment": []
		}
	}
}`

func newTestClient(t *testing.T, baseURL string, tokens TokenStore) *Client {
	t.Helper()
	cfg := &config.Config{
		Unitel: &config.UnitelConfig{
			BaseURL:  baseURL,
			Username: "user",
			Password: "pass",
		},
	}
	return NewClient(cfg, tokens, newMemCatalog())
}

// 缓存 Token 被 401 拒绝后应刷新并重试一次
func TestTokenRefreshOn401(t *testing.T) {
	var authCalls, apiCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			authCalls++
			w.Write([]byte(`{"access_token": "fresh-token"}`))
		case "/service/servicetype":
			apiCalls++
			if r.Header.Get("Authorization") != "Bearer fresh-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(serviceTypesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	tokens := &memTokens{token: "stale-token"}
	client := newTestClient(t, srv.URL, tokens)

	st, err := client.GetServiceTypes(context.Background(), "88001234")
	require.NoError(t, err)
	assert.Equal(t, "PREPAID", st.ServiceType)

	assert.Equal(t, 1, authCalls)
	assert.Equal(t, 2, apiCalls, "401 后应重试且只重试一次")
	assert.Equal(t, "fresh-token", tokens.token)
}

// 刷新后仍 401 判定认证失败，不再继续重试
func TestAuthFailedAfterRetry(t *testing.T) {
	var apiCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			w.Write([]byte(`{"access_token": "whatever"}`))
		default:
			apiCalls++
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &memTokens{token: "stale"})

	_, err := client.GetServiceTypes(context.Background(), "88001234")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, 2, apiCalls)
}

// 部分接口 HTTP 200 但响应体 result 为 "401"，同样要触发刷新
func TestEmbedded401TriggersRefresh(t *testing.T) {
	var apiCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			w.Write([]byte(`{"access_token": "fresh-token"}`))
		case "/service/servicetype":
			apiCalls++
			if r.Header.Get("Authorization") != "Bearer fresh-token" {
				w.Write([]byte(`{"result": "401", "msg": "token expired"}`))
				return
			}
			w.Write([]byte(serviceTypesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &memTokens{token: "stale"})

	st, err := client.GetServiceTypes(context.Background(), "88001234")
	require.NoError(t, err)
	assert.Equal(t, "PREPAID", st.ServiceType)
	assert.Equal(t, 2, apiCalls)
}

// TTL 窗口内资费从缓存读取，不打运营商接口
func TestCachedServiceTypesHitsCache(t *testing.T) {
	var apiCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			w.Write([]byte(`{"access_token": "tok"}`))
		case "/service/servicetype":
			apiCalls++
			w.Write([]byte(serviceTypesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &memTokens{})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.CachedServiceTypes(ctx, "openid-1", "88001234")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, apiCalls)
}

// 套餐价格从缓存的实时资费解析，防止客户端篡改金额
func TestFindPackageByCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			w.Write([]byte(`{"access_token": "tok"}`))
		case "/service/servicetype":
			w.Write([]byte(serviceTypesBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &memTokens{})
	ctx := context.Background()

	pkg, err := client.FindPackageByCode(ctx, FindPackageParams{
		PackageCode: "SD5000",
		Msisdn:      "88001234",
		Openid:      "openid-1",
		OrderType:   "balance",
	})
	require.NoError(t, err)
	assert.Equal(t, 5000.0, pkg.Price)
	assert.Equal(t, "Simple 5000", pkg.EngName)

	pkg, err = client.FindPackageByCode(ctx, FindPackageParams{
		PackageCode: "data3gb2d",
		Msisdn:      "88001234",
		Openid:      "openid-1",
		OrderType:   "data",
	})
	require.NoError(t, err)
	assert.Equal(t, "3GB", pkg.Data)

	// 流量套餐代码在话费类型下查不到
	_, err = client.FindPackageByCode(ctx, FindPackageParams{
		PackageCode: "data3gb2d",
		Msisdn:      "88001234",
		Openid:      "openid-1",
		OrderType:   "balance",
	})
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestFindInvoicePackage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth":
			w.Write([]byte(`{"access_token": "tok"}`))
		case "/service/unitel":
			w.Write([]byte(`{"invoice_date": "2025.08.01-2025.08.31", "total_unpaid": 42000, "invoice_status": "unpaid", "result": "success"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, &memTokens{})
	ctx := context.Background()

	pkg, err := client.FindPackageByCode(ctx, FindPackageParams{
		PackageCode: "2025.08.01-2025.08.31",
		Msisdn:      "88001234",
		Openid:      "openid-1",
		OrderType:   "invoice_payment",
	})
	require.NoError(t, err)
	assert.Equal(t, 42000.0, pkg.Price)

	// 账期不一致要求客户端刷新后重下单
	_, err = client.FindPackageByCode(ctx, FindPackageParams{
		PackageCode: "2025.07.01-2025.07.31",
		Msisdn:      "88001234",
		Openid:      "openid-1",
		OrderType:   "invoice_payment",
	})
	assert.ErrorIs(t, err, ErrInvoicePeriodMismatch)
}
