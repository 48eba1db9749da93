package server

import (
	"quill/internal/forms"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterPage shows the sign-up form.
func (s *Server) RegisterPage(c *fiber.Ctx, actor *models.User) error {
	p := page(c, actor, "Register")
	p.Form = &forms.RegisterForm{}
	return c.Render("register", p)
}

// Register creates the account and signs it in. Reusing an email sends the
// visitor to the login page instead.
func (s *Server) Register(c *fiber.Ctx, actor *models.User) error {
	form := new(forms.RegisterForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	if errs := form.Validate(); errs != nil {
		observability.RecordAuth("register", "invalid")
		form.Password = ""
		p := page(c, actor, "Register")
		p.Form = form
		p.Errors = errs
		return c.Render("register", p)
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
	})
	if err != nil {
		if code, msg := appErrorCode(err); code == models.CodeAlreadyExists {
			observability.RecordAuth("register", "duplicate")
			middleware.Flash(c, msg)
			return c.Redirect("/login")
		}
		return err
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	observability.RecordAuth("register", "success")
	return c.Redirect("/")
}

// LoginPage shows the sign-in form.
func (s *Server) LoginPage(c *fiber.Ctx, actor *models.User) error {
	p := page(c, actor, "Log In")
	p.Form = &forms.LoginForm{}
	return c.Render("login", p)
}

// Login signs the visitor in. Unknown emails and wrong passwords flash a
// message and return to the login page.
func (s *Server) Login(c *fiber.Ctx, actor *models.User) error {
	form := new(forms.LoginForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}

	if errs := form.Validate(); errs != nil {
		observability.RecordAuth("login", "invalid")
		form.Password = ""
		p := page(c, actor, "Log In")
		p.Form = form
		p.Errors = errs
		return c.Render("login", p)
	}

	user, err := s.userService.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		switch code, msg := appErrorCode(err); code {
		case models.CodeNotFound:
			observability.RecordAuth("login", "unknown_email")
			middleware.Flash(c, msg)
			return c.Redirect("/login")
		case models.CodeInvalidCredentials:
			observability.RecordAuth("login", "wrong_password")
			middleware.Flash(c, msg)
			return c.Redirect("/login")
		}
		return err
	}

	if err := s.startSession(c, user); err != nil {
		return err
	}
	observability.RecordAuth("login", "success")
	return c.Redirect("/")
}

// Logout ends the session, if any, and returns home.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.endSession(c)
	observability.RecordAuth("logout", "success")
	return c.Redirect("/")
}
