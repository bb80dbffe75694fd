package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app    *fiber.App
	server *Server
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                  "0",
		Env:                   "test",
		AllowedOrigins:        "http://localhost:5173",
		JWTSecret:             "test-secret-that-is-long-enough-for-hs256",
		JWTIssuer:             "inkwell-api",
		JWTAudience:           "inkwell-client",
		AccessTokenTTLMinutes: 5,
		RefreshTokenTTLHours:  24,
	}
}

// newTestEnv wires a full server over sqlite; withRedis adds a miniredis-backed blacklist.
func newTestEnv(t *testing.T, withRedis bool) *testEnv {
	t.Helper()
	env := &testEnv{db: testutil.NewDB(t)}

	var client *redis.Client
	if withRedis {
		env.redis, client = testutil.NewRedis(t)
	}

	s, err := NewServerWithDeps(testConfig(), env.db, client)
	require.NoError(t, err)
	env.server = s
	env.app = s.NewApp()
	return env
}

type apiResponse struct {
	Status int
	Body   []byte
}

func (r apiResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

func (r apiResponse) errorCode(t *testing.T) string {
	t.Helper()
	var body models.ErrorResponse
	r.decode(t, &body)
	return body.Code
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) apiResponse {
	t.Helper()
	if body == nil {
		return e.doRaw(t, method, path, token, "", nil)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return e.doRaw(t, method, path, token, fiber.MIMEApplicationJSON, raw)
}

// doRaw sends body untouched; an empty contentType omits the header.
func (e *testEnv) doRaw(t *testing.T, method, path, token, contentType string, body []byte) apiResponse {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{Status: resp.StatusCode, Body: raw}
}

func (e *testEnv) signup(t *testing.T, username, phone string) models.User {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/users/user/", "", map[string]string{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "pw123456",
		"phone_number": phone,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	var user models.User
	resp.decode(t, &user)
	return user
}

func (e *testEnv) login(t *testing.T, username string) models.TokenPair {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/token/", "", map[string]string{
		"username": username,
		"password": "pw123456",
	})
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))

	var pair models.TokenPair
	resp.decode(t, &pair)
	return pair
}
