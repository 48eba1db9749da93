package server

import (
	"errors"

	"quill/internal/forms"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/views"

	"github.com/gofiber/fiber/v2"
)

// parseID reads the :id route param. Anything that is not a positive
// integer cannot name a post, so it is a 404.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// page starts the view data shared by every template and drains pending
// flash messages.
func page(c *fiber.Ctx, actor *models.User, title string) views.Page {
	return views.Page{
		Title:   title,
		Actor:   actor,
		Flashes: middleware.Flashes(c),
		CSRF:    csrfToken(c),
	}
}

// fieldErrors extracts a single-field validation error from a service
// call so the form can be re-rendered with it.
func fieldErrors(err error) (forms.Errors, bool) {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation && appErr.Field != "" {
		return forms.Errors{appErr.Field: appErr.Message}, true
	}
	return nil, false
}

// appErrorCode returns the AppError code carried by err, if any.
func appErrorCode(err error) (string, string) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}
	return "", ""
}
