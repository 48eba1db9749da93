package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"quill/internal/cache"
	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie  = "session"
	actorLocal     = "actor"
	tokenIssuer    = "quill"
	tokenAudience  = "quill-web"
	csrfContextKey = "csrf"
)

// actorHandler is a route handler that receives the signed-in user, or nil
// for anonymous visitors.
type actorHandler func(c *fiber.Ctx, actor *models.User) error

// withActor adapts h to fiber, passing the actor resolved by LoadActor.
func (s *Server) withActor(h actorHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h(c, actorFrom(c))
	}
}

func actorFrom(c *fiber.Ctx) *models.User {
	actor, _ := c.Locals(actorLocal).(*models.User)
	return actor
}

// issueToken signs a session token for user.
func (s *Server) issueToken(user *models.User) (string, time.Time, error) {
	if s.config.SecretKey == "" {
		return "", time.Time{}, fmt.Errorf("session secret not configured")
	}

	now := time.Now()
	expires := now.Add(s.config.SessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(user.ID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// parseToken validates signature, issuer, audience and lifetime.
func (s *Server) parseToken(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// startSession signs user in on the response.
func (s *Server) startSession(c *fiber.Ctx, user *models.User) error {
	token, expires, err := s.issueToken(user)
	if err != nil {
		return models.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   s.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// endSession revokes the current token, when there is one, and clears the cookie.
func (s *Server) endSession(c *fiber.Ctx) {
	if raw := c.Cookies(sessionCookie); raw != "" {
		if claims, err := s.parseToken(raw); err == nil && claims.ExpiresAt != nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if err := cache.RevokeToken(c.UserContext(), s.redis, claims.ID, ttl); err != nil {
				middleware.Logger.WarnContext(c.UserContext(), "failed to revoke session",
					slog.String("error", err.Error()))
			}
		}
	}
	s.clearSessionCookie(c)
}

// clearSessionCookie expires the session cookie at the same path it was set
// on, so the deletion applies site-wide whatever the request path.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   s.config.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// LoadActor resolves the session cookie to a user for every request.
// Missing, invalid, revoked or orphaned sessions are treated as anonymous.
func (s *Server) LoadActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(sessionCookie)
		if raw == "" {
			return c.Next()
		}

		actor, err := s.resolveActor(c.UserContext(), raw)
		if err != nil {
			return err
		}
		if actor == nil {
			s.clearSessionCookie(c)
			return c.Next()
		}

		c.Locals(actorLocal, actor)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), actor.ID))
		return c.Next()
	}
}

func (s *Server) resolveActor(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.parseToken(raw)
	if err != nil {
		return nil, nil
	}

	revoked, err := cache.IsTokenRevoked(ctx, s.redis, claims.ID)
	if err != nil {
		// Redis hiccups should not sign everyone out.
		middleware.Logger.WarnContext(ctx, "revocation check failed", slog.String("error", err.Error()))
	} else if revoked {
		return nil, nil
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil
	}

	user, err := s.userService.GetUser(ctx, uint(id))
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// AdminRequired returns middleware that rejects anonymous and non-admin
// visitors with a bare 403. Must run after LoadActor.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFrom(c)
		if actor == nil || !actor.IsAdmin {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals(csrfContextKey).(string)
	return token
}
