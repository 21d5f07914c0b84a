package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/backend/internal/client"
	"github.com/challenge-hub/backend/internal/config"
	"github.com/challenge-hub/backend/internal/service"
	"github.com/challenge-hub/backend/internal/testutil"
)

type testServer struct {
	router *gin.Engine
	store  *testutil.MemStore
}

func newTestServer(t *testing.T, gen client.Generator) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMemStore()
	hasher, err := service.NewPasswordHasher("4")
	require.NoError(t, err)
	auth, err := service.NewAuthService(store, hasher, config.AuthConfig{
		JWTSecret:    "test-secret",
		JWTTTL:       "1h",
		CookieSecure: "false",
	})
	require.NoError(t, err)

	router := NewRouter(Services{
		Auth:       auth,
		Users:      service.NewUserService(store, hasher, gen),
		Challenges: service.NewChallengeService(store, gen),
		Videos:     service.NewVideoService(store, gen),
	}, config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}, AllowCredentials: true})

	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// login registers an account and returns a bearer token.
func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Ana", "email": "ana@mail.com", "password": "secret99"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ana@mail.com", "password": "secret99"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegisterLoginList(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Ana", "email": "ana@mail.com", "password": "secret99"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"response":"Usuario creado","errors":[]}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ana@mail.com", "password": "secret99"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["token"].(string)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	rec = s.do(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ana@mail.com")
	assert.NotContains(t, rec.Body.String(), "password")
	page := decode(t, rec)
	assert.Equal(t, float64(1), page["current_page"])
	assert.Equal(t, float64(1), page["total"])

	rec = s.do(t, http.MethodGet, "/api/user", "", nil, cookies[0])
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@mail.com", decode(t, rec)["email"])
}

func TestRegisterErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/register", "", gin.H{"name": "Ana", "email": "ana@mail.com", "password": "secret99"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "La validación falló", body["error"])
	assert.Contains(t, body["errors"], "email")

	rec = s.do(t, http.MethodPost, "/api/register", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, rec.Body.String())

	users, _, _ := s.store.Counts()
	assert.Equal(t, 1, users)
}

func TestLoginUnauthorized(t *testing.T) {
	s := newTestServer(t, nil)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ana@mail.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/users", "/api/challenges", "/api/videos/1", "/api/user"} {
		rec := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/users", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Successfully logged out"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChallengeLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/challenges", token, gin.H{"type": "manual", "title": "Climb", "description": "Reach the top"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"response":"Challenge creado","errors":[]}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/challenges/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Climb", decode(t, rec)["title"])

	rec = s.do(t, http.MethodPatch, "/api/challenges/1", token, gin.H{"title": "Climb higher"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Climb higher", body["title"])
	assert.Equal(t, "Reach the top", body["description"])

	rec = s.do(t, http.MethodPut, "/api/challenges/1", token, gin.H{"title": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Error de validación", decode(t, rec)["error"])

	rec = s.do(t, http.MethodDelete, "/api/challenges/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Challenge eliminado con éxito"}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/challenges/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Challenge no encontrado"}`, rec.Body.String())
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{method: http.MethodGet, path: "/api/users/99", want: "Usuario no encontrado"},
		{method: http.MethodGet, path: "/api/videos/abc", want: "Video no encontrado"},
		{method: http.MethodPut, path: "/api/videos/99", want: "Video no encontrado"},
		{method: http.MethodDelete, path: "/api/challenges/0", want: "Challenge no encontrado"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, token, gin.H{"title": "x"})
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, tt.want, decode(t, rec)["error"])
		})
	}
}

func TestCreateTypeRequired(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/videos", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"La creación falló","errors":{"type":["The type field is required."]}}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/videos", token, gin.H{"type": "manual", "title": "Intro", "url": "nope"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"La creación falló","errors":{"url":["The url format is invalid."]}}`, rec.Body.String())
}

func TestFieldTypeViolations(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   string
	}{
		{
			name:   "register-name",
			method: http.MethodPost,
			path:   "/api/register",
			body:   `{"name":123,"email":"luis@mail.com","password":"secret99"}`,
			want:   `{"error":"La validación falló","errors":{"name":["The name must be a string."]}}`,
		},
		{
			name:   "user-type",
			method: http.MethodPost,
			path:   "/api/users",
			token:  token,
			body:   `{"type":true,"name":"Luis"}`,
			want:   `{"error":"La creación falló","errors":{"type":["The type must be a string."]}}`,
		},
		{
			name:   "challenge-fields",
			method: http.MethodPost,
			path:   "/api/challenges",
			token:  token,
			body:   `{"type":"manual","title":["a"],"description":{"x":1}}`,
			want: `{"error":"La creación falló","errors":{` +
				`"title":["The title must be a string."],"description":["The description must be a string."]}}`,
		},
		{
			name:   "video-type",
			method: http.MethodPost,
			path:   "/api/videos",
			token:  token,
			body:   `{"type":5}`,
			want:   `{"error":"La creación falló","errors":{"type":["The type must be a string."]}}`,
		},
		{
			name:   "video-update-url",
			method: http.MethodPut,
			path:   "/api/videos/1",
			token:  token,
			body:   `{"URL":42}`,
			want:   `{"error":"Error de validación","errors":{"url":["The url must be a string."]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}

	// null is an absent value, not a type violation
	rec := s.do(t, http.MethodPost, "/api/videos", token, `{"type":"manual","title":"Intro","url":"https://x.io/v","description":null}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/videos", token, `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	users, _, videos := s.store.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, videos)
}

func TestListPageOutOfRange(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/videos?page=9223372036854775807", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Empty(t, body["data"])
	assert.EqualValues(t, 1, body["last_page"])

	rec = s.do(t, http.MethodGet, "/api/users?page=abc&per_page=-3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.EqualValues(t, 1, body["current_page"])
	assert.EqualValues(t, 10, body["per_page"])
}

// newFakeLLM serves a fixed chat completions response.
func newFakeLLM(t *testing.T, status int, body string) client.Generator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return client.NewOpenAIClient(client.GeneratorSettings{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Model:     "gpt-3.5-turbo",
		MaxTokens: 50,
		Timeout:   2 * time.Second,
	})
}

func TestAutoCreate(t *testing.T) {
	gen := newFakeLLM(t, http.StatusOK, `{"choices":[{"message":{"content":"Intro|https://example.com/intro|A short intro"}}]}`)
	s := newTestServer(t, gen)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/videos", token, gin.H{"type": "auto"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Intro", body["title"])
	assert.Equal(t, "https://example.com/intro", body["url"])
	assert.Equal(t, "A short intro", body["description"])
	assert.Equal(t, float64(1), body["id"])
}

func TestAutoCreateMalformedPayload(t *testing.T) {
	gen := newFakeLLM(t, http.StatusOK, `{"unexpected":"payload"}`)
	s := newTestServer(t, gen)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/videos", token, gin.H{"type": "auto"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"No se pudo generar el video","errors":{"unexpected":"payload"}}`, rec.Body.String())

	_, _, videos := s.store.Counts()
	assert.Zero(t, videos)
}

func TestAutoCreateMalformedReply(t *testing.T) {
	gen := newFakeLLM(t, http.StatusOK, `{"choices":[{"message":{"content":"just a title"}}]}`)
	s := newTestServer(t, gen)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/challenges", token, gin.H{"type": "auto"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"No se pudo generar el desafío","errors":"just a title"}`, rec.Body.String())
}

func TestAutoCreateDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/users", token, gin.H{"type": "auto"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"No se pudo generar el usuario","errors":[]}`, rec.Body.String())

	users, _, _ := s.store.Counts()
	assert.Equal(t, 1, users)
}

func TestAmbientRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.True(t, strings.Contains(rec.Body.String(), "/api/videos/{id}"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
