// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"linkdeck/internal/cache"
	"linkdeck/internal/config"
	"linkdeck/internal/database"
	"linkdeck/internal/draft"
	"linkdeck/internal/middleware"
	"linkdeck/internal/models"
	"linkdeck/internal/render"
	"linkdeck/internal/session"
	"linkdeck/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "linkdeck")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "linkdeck")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Valkey client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "page:*", "draft:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB        *sql.DB
	Valkey    *redis.Client
	Renderer  *render.Renderer
	Sessions  *session.Store
	Users     *store.UserStore
	Accounts  *store.AccountStore
	Drafts    *draft.Store
	PageCache *cache.PageCache
	Cfg       *config.Config
	Auth      *Auth
	Dashboard *Dashboard
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	cfg := &config.Config{BaseURL: "http://localhost:8080"}

	sessions := session.NewStore(vk, false)
	users := store.NewUserStore(db)
	accounts := store.NewAccountStore(db)
	drafts := draft.NewStore(vk)
	pageCache := cache.NewPageCache(vk, 1*time.Minute)

	return &testEnv{
		DB:        db,
		Valkey:    vk,
		Renderer:  renderer,
		Sessions:  sessions,
		Users:     users,
		Accounts:  accounts,
		Drafts:    drafts,
		PageCache: pageCache,
		Cfg:       cfg,
		Auth:      NewAuth(renderer, sessions, users, drafts, nil),
		Dashboard: NewDashboard(renderer, accounts, drafts, pageCache, nil, cfg),
		Public:    NewPublic(renderer, accounts, pageCache),
	}
}

// createTestUser inserts a user and registers cleanup. The cascade also
// removes any account provisioned during the test.
func (e *testEnv) createTestUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	// A previous failed run may have left the row behind.
	e.DB.Exec("DELETE FROM users WHERE email = $1", email)

	user, err := e.Users.Create(email, password)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() {
		e.DB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

// signIn creates a real session for the user and returns the cookie plus
// the session data, so requests exercise both the context and the
// cookie-keyed draft store.
func (e *testEnv) signIn(t *testing.T, user *models.User) (*http.Cookie, *session.Data) {
	t.Helper()

	data := &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: true,
	}

	rec := httptest.NewRecorder()
	if _, err := e.Sessions.Create(context.Background(), rec, data); err != nil {
		t.Fatalf("session create: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c, data
		}
	}
	t.Fatal("no session cookie set")
	return nil, nil
}

// authedForm builds a POST request with form values, session cookie, and
// session context, mimicking what the middleware chain produces.
func authedForm(t *testing.T, target string, form url.Values, cookie *http.Cookie, sess *session.Data) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	return req.WithContext(ctxWithSession(req.Context(), sess))
}

// authedGet builds a GET request with session cookie and context.
func authedGet(t *testing.T, target string, cookie *http.Cookie, sess *session.Data) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(cookie)
	return req.WithContext(ctxWithSession(req.Context(), sess))
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withChiURLParam adds a chi URL parameter to a request, reusing the
// route context when one is already attached.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// dashboardState loads the current editing state for a signed-in request.
func (e *testEnv) dashboardState(t *testing.T, cookie *http.Cookie) *draft.State {
	t.Helper()
	state, err := e.Drafts.Load(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("draft load: %v", err)
	}
	return state
}

// waitForCounter polls until the expected counter value is visible, since
// counter writes happen on a background goroutine.
func waitForCounter(t *testing.T, read func() int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if read() == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("counter did not reach %d in time (got %d)", want, read())
}
