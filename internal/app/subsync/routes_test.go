package subsync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subsync/internal/cache"
	"github.com/magabrotheeeer/subsync/internal/lib/keymutex"
	"github.com/magabrotheeeer/subsync/internal/models"
	"github.com/magabrotheeeer/subsync/internal/rabbitmq"
	companyservice "github.com/magabrotheeeer/subsync/internal/services/company"
	subscriptionservice "github.com/magabrotheeeer/subsync/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subsync/internal/services/user"
	"github.com/magabrotheeeer/subsync/internal/storage"
)

// memStorage хранит документы в памяти.
type memStorage struct {
	mu        sync.Mutex
	users     map[string]models.User
	companies map[string]models.Company
}

func newMemStorage() *memStorage {
	return &memStorage{users: map[string]models.User{}, companies: map[string]models.Company{}}
}

func (m *memStorage) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.WalletAddress == user.WalletAddress || u.Email == user.Email {
			return nil, storage.ErrUserExists
		}
	}
	m.users[user.WalletAddress] = user
	return &user, nil
}

func (m *memStorage) GetUserByWallet(_ context.Context, walletAddress string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[walletAddress]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	u.Subscriptions = append([]models.Subscription{}, u.Subscriptions...)
	return &u, nil
}

func (m *memStorage) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.WalletAddress]; !ok {
		return storage.ErrUserNotFound
	}
	u := *user
	u.Subscriptions = append([]models.Subscription{}, user.Subscriptions...)
	m.users[user.WalletAddress] = u
	return nil
}

func (m *memStorage) CreateCompany(_ context.Context, company models.Company) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[company.Name]; ok {
		return nil, storage.ErrCompanyExists
	}
	m.companies[company.Name] = company
	return &company, nil
}

func (m *memStorage) GetCompanyByName(_ context.Context, name string) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[name]
	if !ok {
		return nil, storage.ErrCompanyNotFound
	}
	return &c, nil
}

func (m *memStorage) ListCompanies(_ context.Context) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := []models.Company{}
	for _, c := range m.companies {
		list = append(list, c)
	}
	return list, nil
}

func (m *memStorage) Ping(context.Context) error  { return nil }
func (m *memStorage) Close(context.Context) error { return nil }

var _ Repository = (*memStorage)(nil)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemStorage()

	router := chi.NewRouter()
	RegisterRoutes(router, logger, rate.NewLimiter(rate.Inf, 0), Services{
		Users:         userservice.NewUserService(repo, logger),
		Subscriptions: subscriptionservice.NewSubscriptionService(repo, cache.Nop{}, keymutex.New(time.Second), rabbitmq.NopPublisher{}, logger),
		Companies:     companyservice.NewCompanyService(repo, cache.Nop{}, logger),
		Health:        repo,
	})
	return router
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, reader))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func listSubscriptions(t *testing.T, h http.Handler, wallet string) []models.Subscription {
	t.Helper()
	code, env := doJSON(t, h, http.MethodGet, "/api/user/"+wallet+"/subscriptions", "")
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Subscriptions []models.Subscription `json:"subscriptions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Subscriptions
}

func TestRoutes_SubscriptionRoundTrip(t *testing.T) {
	h := newTestRouter(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/user", `{"name":"Alice","email":"alice@example.com","walletAddress":"0xA1"}`)
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, h, http.MethodPost, "/api/user", `{"name":"Eve","email":"alice@example.com","walletAddress":"0xE5"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Error", env.Status)

	assert.Empty(t, listSubscriptions(t, h, "0xA1"))

	code, _ = doJSON(t, h, http.MethodPost, "/api/user/0xA1/enroll", `{"name":"A","subscriptionAddress":"0xADDR1","price":5,"interval":30}`)
	require.Equal(t, http.StatusOK, code)

	subs := listSubscriptions(t, h, "0xA1")
	require.Len(t, subs, 1)
	assert.Equal(t, "A", subs[0].Name)
	assert.True(t, subs[0].IsActive)

	code, _ = doJSON(t, h, http.MethodPost, "/api/user/0xA1/cancel", `{"name":"A","method":"cancel"}`)
	require.Equal(t, http.StatusOK, code)

	subs = listSubscriptions(t, h, "0xA1")
	require.Len(t, subs, 1)
	assert.False(t, subs[0].IsActive)

	code, env = doJSON(t, h, http.MethodPost, "/api/user/0xA1/enroll", `{"name":"A","subscriptionAddress":"0xADDR2","price":99,"interval":30}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "now active")

	subs = listSubscriptions(t, h, "0xA1")
	require.Len(t, subs, 1)
	assert.True(t, subs[0].IsActive)
	assert.Equal(t, "0xADDR2", subs[0].SubscriptionAddress)
	assert.Equal(t, 5.0, subs[0].Price)
}

func TestRoutes_NotFound(t *testing.T) {
	h := newTestRouter(t)

	code, env := doJSON(t, h, http.MethodGet, "/api/user/0xMISSING/subscriptions", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "user not found", env.Error)

	code, _ = doJSON(t, h, http.MethodPost, "/api/user/0xMISSING/enroll", `{"name":"A","subscriptionAddress":"0x1","interval":30}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, h, http.MethodPost, "/api/user/0xMISSING/cancel", `{"name":"A","method":"cancel"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, h, http.MethodGet, "/api/company/Hulu", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoutes_Companies(t *testing.T) {
	h := newTestRouter(t)

	body := `{"name":"Netflix","walletAddress":"0xN","chainID":137,"price":10}`
	code, _ := doJSON(t, h, http.MethodPost, "/api/company", body)
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, h, http.MethodPost, "/api/company", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "company with this name already exists", env.Error)

	code, env = doJSON(t, h, http.MethodGet, "/api/company", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"Netflix"`)

	code, env = doJSON(t, h, http.MethodGet, "/api/company/Netflix", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"chainID":137`)
}

func TestRoutes_CompanyNameWithDot(t *testing.T) {
	h := newTestRouter(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/company", `{"name":"Example","walletAddress":"0xB","chainID":1,"price":1}`)
	require.Equal(t, http.StatusCreated, code)
	code, _ = doJSON(t, h, http.MethodPost, "/api/company", `{"name":"Example.com","walletAddress":"0xC","chainID":137,"price":2}`)
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, h, http.MethodGet, "/api/company/Example.com", "")
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Contains(t, string(env.Data), `"name":"Example.com"`)
	assert.Contains(t, string(env.Data), `"walletAddress":"0xC"`)

	code, env = doJSON(t, h, http.MethodGet, "/api/company/Example", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"walletAddress":"0xB"`)
}

func TestRoutes_WalletWithDot(t *testing.T) {
	h := newTestRouter(t)

	code, _ := doJSON(t, h, http.MethodPost, "/api/user", `{"name":"Bob","email":"bob@example.com","walletAddress":"bob.eth"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = doJSON(t, h, http.MethodPost, "/api/user/bob.eth/enroll", `{"name":"A","subscriptionAddress":"0xADDR1","price":5,"interval":30}`)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, listSubscriptions(t, h, "bob.eth"), 1)
}

func TestRoutes_Health(t *testing.T) {
	code, env := doJSON(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", env.Status)
}
