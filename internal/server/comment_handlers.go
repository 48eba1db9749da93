package server

import (
	"quill/internal/forms"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment attaches a comment to the post and re-renders it. Anonymous
// visitors are sent to log in and nothing is stored.
func (s *Server) AddComment(c *fiber.Ctx, actor *models.User) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}

	if actor == nil {
		middleware.Flash(c, service.MsgLoginToComment)
		return c.Redirect("/login")
	}

	form := new(forms.CommentForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Validate(); errs != nil {
		return s.renderPost(c, actor, post, form, errs)
	}

	if _, err := s.commentService.CreateComment(c.UserContext(), actor, id, form.CommentText); err != nil {
		if errs, ok := fieldErrors(err); ok {
			return s.renderPost(c, actor, post, form, errs)
		}
		return err
	}
	observability.CommentsCreated.Inc()

	// Reload so the new comment shows with its author.
	post, err = s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.renderPost(c, actor, post, &forms.CommentForm{}, nil)
}
