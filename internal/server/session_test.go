package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken_RoundTrip(t *testing.T) {
	s := &Server{config: testConfig()}
	user := &models.User{ID: 7}

	token, expires, err := s.issueToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := s.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	other, _, err := s.issueToken(user)
	require.NoError(t, err)
	otherClaims, err := s.parseToken(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	s := &Server{config: &config.Config{SessionTTL: time.Hour}}
	_, _, err := s.issueToken(&models.User{ID: 1})
	assert.Error(t, err)
}

func TestParseToken_Rejects(t *testing.T) {
	s := &Server{config: testConfig()}

	sign := func(secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
		str, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return str
	}
	valid := func() jwt.RegisteredClaims {
		now := time.Now()
		return jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        "jti-1",
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"api"}
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"Garbage", "not-a-token"},
		{"Wrong secret", sign("another-secret-another-secret-123", jwt.SigningMethodHS256, valid())},
		{"Wrong algorithm", sign(s.config.SecretKey, jwt.SigningMethodHS512, valid())},
		{"Expired", sign(s.config.SecretKey, jwt.SigningMethodHS256, expired)},
		{"Wrong issuer", sign(s.config.SecretKey, jwt.SigningMethodHS256, wrongIssuer)},
		{"Wrong audience", sign(s.config.SecretKey, jwt.SigningMethodHS256, wrongAudience)},
		{"No expiry", sign(s.config.SecretKey, jwt.SigningMethodHS256, noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.parseToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestLoadActor(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "ada@example.com", "Ada", true)

	t.Run("Valid session", func(t *testing.T) {
		body := readBody(t, env.get(t, "/", env.sessionFor(t, admin)))
		assert.Contains(t, body, "Log Out")
	})

	t.Run("Garbage cookie is anonymous", func(t *testing.T) {
		resp := env.get(t, "/", &http.Cookie{Name: sessionCookie, Value: "garbage"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), `href="/login"`)
	})

	t.Run("Garbage cookie is cleared site-wide from a nested path", func(t *testing.T) {
		post := env.createPost(t, admin, "Nested")
		target := "/post/" + strconv.FormatUint(uint64(post.ID), 10)
		resp := env.get(t, target, &http.Cookie{Name: sessionCookie, Value: "garbage"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cleared := clearedCookie(resp, sessionCookie)
		require.NotNil(t, cleared)
		assert.Equal(t, "/", cleared.Path)
	})

	t.Run("Deleted user is anonymous", func(t *testing.T) {
		ghost := &models.User{ID: 999, Name: "Ghost", IsAdmin: true}
		resp := env.get(t, "/new-post", env.sessionFor(t, ghost))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAdminRequired(t *testing.T) {
	s := &Server{config: testConfig()}

	tests := []struct {
		name       string
		actor      *models.User
		wantStatus int
	}{
		{"Anonymous", nil, http.StatusForbidden},
		{"Reader", &models.User{ID: 2}, http.StatusForbidden},
		{"Admin", &models.User{ID: 1, IsAdmin: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				if tt.actor != nil {
					c.Locals(actorLocal, tt.actor)
				}
				return c.Next()
			})
			app.Get("/admin", s.AdminRequired(), func(c *fiber.Ctx) error {
				return c.SendString(strconv.FormatUint(uint64(actorFrom(c).ID), 10))
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
