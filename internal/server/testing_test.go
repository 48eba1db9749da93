package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "correct-horse-battery"

type testEnv struct {
	s   *Server
	app *fiber.App
	db  *gorm.DB
	mr  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:   "test-secret-key-12345678901234567890123456789012",
		DatabaseURI: "sqlite:///:memory:",
		Port:        "0",
		Env:         "test",
		SessionTTL:  time.Hour,
	}
}

// newTestEnv builds a server over an in-memory database and miniredis.
func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewServerWithDeps(cfg, db, rdb)
	s.userService.WithHashCost(bcrypt.MinCost)

	return &testEnv{s: s, app: s.App(), db: db, mr: mr}
}

func (e *testEnv) createUser(t *testing.T, email, name string, admin bool) *models.User {
	t.Helper()
	ctx := context.Background()

	hash, err := service.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Email: email, Name: name, Password: hash}
	require.NoError(t, e.s.userRepo.Create(ctx, user))
	require.NoError(t, e.s.userRepo.SetAdmin(ctx, user.ID, admin))
	user.IsAdmin = admin
	return user
}

func (e *testEnv) createPost(t *testing.T, author *models.User, title string) *models.BlogPost {
	t.Helper()
	post := &models.BlogPost{
		Title:    title,
		Subtitle: "A subtitle",
		Date:     "March, 07, 2024",
		Body:     "<p>Body of " + title + "</p>",
		ImgURL:   "https://example.com/cover.jpg",
		AuthorID: author.ID,
	}
	require.NoError(t, e.s.postRepo.Create(context.Background(), post))
	return post
}

func (e *testEnv) sessionFor(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, _, err := e.s.issueToken(user)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: token}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, target string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookies...)
}

func (e *testEnv) postForm(t *testing.T, target string, values url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return e.do(t, req, cookies...)
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// responseCookie returns the live cookie named name set by resp, or nil.
// Expired cookies are clearing instructions and are skipped.
func responseCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name != name {
			continue
		}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			continue
		}
		return c
	}
	return nil
}

// clearedCookie returns the Set-Cookie that deletes name, or nil.
func clearedCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value == "" && !c.Expires.IsZero() && c.Expires.Before(time.Now()) {
			return c
		}
	}
	return nil
}
