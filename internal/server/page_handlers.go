package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) About(c *fiber.Ctx, actor *models.User) error {
	return c.Render("about", page(c, actor, "About"))
}

func (s *Server) Contact(c *fiber.Ctx, actor *models.User) error {
	return c.Render("contact", page(c, actor, "Contact"))
}
