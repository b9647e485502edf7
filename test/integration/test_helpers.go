//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"go-course-platform/internal/app"
	"go-course-platform/internal/config"
	"go-course-platform/internal/database"
	"go-course-platform/internal/mail"
	"go-course-platform/internal/media"
	"go-course-platform/internal/model"
	"go-course-platform/internal/repository"
)

// outbox records activation mails instead of sending them.
type outbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (o *outbox) SendActivation(_ context.Context, to string, data mail.Activation) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[to] = data.Code
	return nil
}

func (o *outbox) code(email string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codes[strings.ToLower(email)]
}

type testServer struct {
	*httptest.Server
	users  *repository.UserRepository
	outbox *outbox
}

// newTestServer runs the full stack against the MongoDB named by
// TEST_DATABASE_URL and an in-process Redis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	uri := os.Getenv("TEST_DATABASE_URL")
	if uri == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	name := "lms_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db, err := database.Connect(ctx, uri, name, time.Second)
	require.NoError(t, err)
	require.NoError(t, db.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close(context.Background())
	})

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	store, err := media.NewLocalStore(t.TempDir(), "http://media.test/media")
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:                       config.EnvDevelopment,
		CORSOrigins:                  []string{"http://localhost:3000"},
		RateLimitRPM:                 1000,
		AuthRateLimitRPM:             1000,
		MaxBodyBytes:                 10 << 20,
		RequestTimeout:               30 * time.Second,
		ActivationSecret:             "activation-secret",
		ActivationTokenExpireMinutes: 5,
		AccessTokenSecret:            "access-secret",
		AccessTokenExpireMinutes:     5,
		RefreshTokenSecret:           "refresh-secret",
		RefreshTokenExpireDays:       7,
		MediaDriver:                  config.MediaDriverLocal,
	}

	box := &outbox{codes: map[string]string{}}
	server := httptest.NewServer(app.NewHandler(cfg, db, redisClient, store, box))
	t.Cleanup(server.Close)

	return &testServer{Server: server, users: repository.NewUserRepository(db.Database), outbox: box}
}

// client returns an HTTP client with its own cookie jar, standing in for
// one browser.
func (s *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (s *testServer) do(t *testing.T, c *http.Client, method string, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, s.URL+path, &payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var parsed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

// signUp registers and activates an account, then logs c in.
func (s *testServer) signUp(t *testing.T, c *http.Client, name string, email string, password string) {
	t.Helper()

	resp, body := s.do(t, c, http.MethodPost, "/api/v1/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = s.do(t, c, http.MethodPost, "/api/v1/activate-user", map[string]string{
		"activation_token": body["activationToken"].(string),
		"activation_code":  s.outbox.code(email),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	s.login(t, c, email, password)
}

func (s *testServer) login(t *testing.T, c *http.Client, email string, password string) map[string]any {
	t.Helper()
	resp, body := s.do(t, c, http.MethodPost, "/api/v1/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return body
}

func (s *testServer) promote(t *testing.T, email string) {
	t.Helper()
	_, err := s.users.UpdateRoleByEmail(context.Background(), email, model.RoleAdmin)
	require.NoError(t, err)
}
