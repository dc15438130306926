package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authadapters "account_backend/internal/feature/auth/adapters"
	authhandler "account_backend/internal/feature/auth/transport/handler"
	"account_backend/internal/feature/auth/usecase"
	"account_backend/internal/platform/activationcode"
	"account_backend/internal/platform/db"
	platformhandler "account_backend/internal/platform/http/handler"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/password"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// inbox records the last activation code sent to each address.
type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (i *inbox) SendActivationCode(_ context.Context, to, code string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.codes[to] = code
	return nil
}

func (i *inbox) last(to string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[to]
}

type testServer struct {
	router *gin.Engine
	inbox  *inbox
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb, err := db.Open(db.Config{Driver: db.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, authadapters.Models()...))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ts := &testServer{
		inbox: &inbox{codes: map[string]string{}},
		now:   time.Now().UTC(),
	}
	clock := func() time.Time { return ts.now }

	tokens, err := jwtmw.NewIssuer("e2e-secret", "HS256", jwtmw.WithClock(clock))
	require.NoError(t, err)

	uc := usecase.NewAuthUsecase(
		authadapters.NewGormStore(gdb),
		password.NewHasher(bcrypt.MinCost),
		tokens,
		activationcode.NewGenerator(),
		ts.inbox,
		usecase.WithClock(clock),
	)
	ts.router = NewRouter(authhandler.NewAuthHandler(uc), platformhandler.NewHealthHandler(sqlDB), tokens)
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) register(email, pw string) *httptest.ResponseRecorder {
	body := `{"email_address":"` + email + `","password":"` + pw + `"}`
	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req)
}

func (ts *testServer) activate(email, code string) *httptest.ResponseRecorder {
	q := url.Values{"email_str": {email}, "activation_code": {code}}
	return ts.do(httptest.NewRequest(http.MethodPost, "/users/activate?"+q.Encode(), nil))
}

func (ts *testServer) login(email, pw string) *httptest.ResponseRecorder {
	form := url.Values{"username": {email}, "password": {pw}}
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func (ts *testServer) me(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func otherCode(code string) string {
	if code == "0000" {
		return "1111"
	}
	return "0000"
}

func TestRouter_RegisterActivateLoginMe(t *testing.T) {
	ts := newTestServer(t)
	const email, pw = "alice@example.com", "correct horse"

	w := ts.register(email, pw)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	registered := decode(t, w)
	assert.Equal(t, email, registered["email_address"])
	assert.NotZero(t, registered["id"])
	assert.NotContains(t, registered, "password")

	code := ts.inbox.last(email)
	require.Len(t, code, 4)

	// inactive users cannot log in yet
	w = ts.login(email, pw)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.activate(email, otherCode(code))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "code_mismatch", decode(t, w)["code"])

	w = ts.activate(email, code)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = ts.activate(email, code)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_active", decode(t, w)["code"])

	w = ts.login(email, "wrong password")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = ts.login(email, pw)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokenBody := decode(t, w)
	assert.Equal(t, "bearer", tokenBody["token_type"])
	token, _ := tokenBody["access_token"].(string)
	require.NotEmpty(t, token)

	w = ts.me(token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, registered, decode(t, w))

	w = ts.me("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the login token lives 30 minutes
	ts.now = ts.now.Add(31 * time.Minute)
	w = ts.me(token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ExpiredCodeIsRegenerated(t *testing.T) {
	ts := newTestServer(t)
	const email = "bob@example.com"

	require.Equal(t, http.StatusOK, ts.register(email, "pw").Code)
	first := ts.inbox.last(email)

	ts.now = ts.now.Add(61 * time.Second)
	w := ts.activate(email, first)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "code_expired", decode(t, w)["code"])

	second := ts.inbox.last(email)
	require.Len(t, second, 4)

	ts.now = ts.now.Add(10 * time.Second)
	w = ts.activate(email, second)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func TestRouter_LongPassword(t *testing.T) {
	ts := newTestServer(t)
	const email = "dave@example.com"
	pw := strings.Repeat("p", 100)

	w := ts.register(email, pw)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, http.StatusNoContent, ts.activate(email, ts.inbox.last(email)).Code)

	w = ts.login(email, pw)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.login(email, pw[:72])
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Errors(t *testing.T) {
	ts := newTestServer(t)

	require.Equal(t, http.StatusOK, ts.register("carol@example.com", "pw").Code)

	w := ts.register("carol@example.com", "other")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "signup_failed", decode(t, w)["code"])

	w = ts.register("not-an-email", "pw")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.activate("ghost@example.com", "1234")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["code"])

	w = ts.do(httptest.NewRequest(http.MethodPost, "/users/activate", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.login("ghost@example.com", "pw")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.me("not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["database"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
