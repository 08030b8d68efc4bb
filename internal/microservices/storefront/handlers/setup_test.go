package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"restaurant-storefront/internal/cart"
	"restaurant-storefront/internal/common/logger"
	"restaurant-storefront/internal/config"
	"restaurant-storefront/internal/connections/payments"
	"restaurant-storefront/internal/microservices/notificator/hub"
	"restaurant-storefront/internal/microservices/storefront/repository"
	"restaurant-storefront/internal/microservices/storefront/service"
)

type stubIntents struct{ err error }

func (s stubIntents) CreateIntent(_ context.Context, cents int64, _ string) (payments.Intent, error) {
	if s.err != nil {
		return payments.Intent{}, s.err
	}
	return payments.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil
}

type testEnv struct {
	handler http.Handler
	hub     *hub.Hub
	svc     *service.Service
}

func newEnv(t *testing.T, intents payments.IntentCreator) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	cfg.HTTP.AllowedOrigins = []string{"http://localhost:5173"}
	lg := logger.NewNop()

	h := hub.New(8)
	svc, err := service.New(repository.NewMemory(), service.NewHubEvents(h), intents, cfg, lg)
	require.NoError(t, err)

	sessions := cart.NewSessions(cart.MemoryStorageFactory(), lg)
	return &testEnv{
		handler: Router(New(svc, sessions, h, cfg.HTTP, lg), cfg.HTTP, lg),
		hub:     h,
		svc:     svc,
	}
}

// do sends body (marshalled unless it is already a string) with the given cookies.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Error  string `json:"error"`
}
