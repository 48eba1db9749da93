package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FlashCookie carries one-time notices across a redirect.
const FlashCookie = "flash"

const flashSeparator = "\n"

// Flash queues msg for the next rendered page.
func Flash(c *fiber.Ctx, msg string) {
	pending := strings.Join(append(peekFlashes(c), msg), flashSeparator)
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    url.QueryEscape(pending),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Flashes returns the queued notices and clears them.
func Flashes(c *fiber.Ctx) []string {
	msgs := peekFlashes(c)
	if len(msgs) > 0 {
		c.Cookie(&fiber.Cookie{
			Name:     FlashCookie,
			Value:    "",
			Path:     "/",
			HTTPOnly: true,
			Expires:  time.Unix(0, 0),
		})
	}
	return msgs
}

func peekFlashes(c *fiber.Ctx) []string {
	raw := c.Cookies(FlashCookie)
	if raw == "" {
		return nil
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil || decoded == "" {
		return nil
	}
	return strings.Split(decoded, flashSeparator)
}
