package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yacinebz/go-crud-soft-delete/internal/database"
	"github.com/yacinebz/go-crud-soft-delete/models"
	"github.com/yacinebz/go-crud-soft-delete/search"
	"github.com/yacinebz/go-crud-soft-delete/web"
	"github.com/yacinebz/go-crud-soft-delete/web/handlers"
)

// fakeCache is an in-memory handlers.Cache that can be forced to fail.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	lastTTL time.Duration

	getErr    error
	setErr    error
	deleteErr error
	pingErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return false, c.getErr
	}

	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.setErr != nil {
		return c.setErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.entries[key] = raw
	c.lastTTL = ttl

	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleteErr != nil {
		return c.deleteErr
	}

	delete(c.entries, key)

	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return c.pingErr }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]

	return ok
}

func (c *fakeCache) raw(key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.entries[key]
}

// fakeSearch records indexed users and serves canned results.
type fakeSearch struct {
	mu      sync.Mutex
	indexed []search.UserDocument

	indexErr  error
	searchErr error
	results   []search.UserDocument

	healthStatus string
	healthErr    error
}

func (s *fakeSearch) IndexUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexErr != nil {
		return s.indexErr
	}

	s.indexed = append(s.indexed, search.UserDocument{ID: user.ID, Name: user.Name, Email: user.Email})

	return nil
}

func (s *fakeSearch) SearchUsers(_ context.Context, _ string) ([]search.UserDocument, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}

	return s.results, nil
}

func (s *fakeSearch) Health(_ context.Context) (string, error) {
	if s.healthErr != nil {
		return "", s.healthErr
	}

	return s.healthStatus, nil
}

func (s *fakeSearch) indexedDocs() []search.UserDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]search.UserDocument(nil), s.indexed...)
}

type testEnv struct {
	db     *database.Db
	cache  *fakeCache
	search *fakeSearch
	srv    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	client, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	db, err := database.New(client, nil)
	require.NoError(t, err)

	env := &testEnv{
		db:     db,
		cache:  newFakeCache(),
		search: &fakeSearch{healthStatus: "green"},
	}

	router := web.NewRouter(handlers.Dependencies{
		DB:       db,
		Cache:    env.cache,
		Search:   env.search,
		CacheTTL: time.Hour,
	})

	env.srv = httptest.NewServer(router)
	t.Cleanup(env.srv.Close)

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, payload
}

func (e *testEnv) createUser(t *testing.T, name, email string) models.UserResponse {
	t.Helper()

	status, body := e.do(t, http.MethodPost, "/api/v1/users/", models.CreateUserRequest{Name: name, Email: email})
	require.Equal(t, http.StatusOK, status, string(body))

	var envlp struct {
		Data models.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envlp))

	return envlp.Data
}

func (e *testEnv) protectUser(t *testing.T, id uint) {
	t.Helper()

	err := e.db.Client.Model(&models.User{}).Where("id = ?", id).Update("can_delete", false).Error
	require.NoError(t, err)
}

func decodeEnvelope(t *testing.T, body []byte) models.StandardResponse {
	t.Helper()

	var envlp models.StandardResponse
	require.NoError(t, json.Unmarshal(body, &envlp))

	return envlp
}

var errBackend = errors.New("backend unavailable")
