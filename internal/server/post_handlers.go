package server

import (
	"fmt"
	"log/slog"

	"quill/internal/forms"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Home lists every post.
func (s *Server) Home(c *fiber.Ctx, actor *models.User) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return err
	}
	p := page(c, actor, "")
	p.Posts = posts
	return c.Render("index", p)
}

// ShowPost renders one post with its comments and the comment box.
func (s *Server) ShowPost(c *fiber.Ctx, actor *models.User) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return s.renderPost(c, actor, post, &forms.CommentForm{}, nil)
}

func (s *Server) renderPost(c *fiber.Ctx, actor *models.User, post *models.BlogPost, form *forms.CommentForm, errs forms.Errors) error {
	p := page(c, actor, post.Title)
	p.Post = post
	p.Form = form
	p.Errors = errs
	return c.Render("post", p)
}

// NewPostPage shows an empty post form with the author prefilled.
func (s *Server) NewPostPage(c *fiber.Ctx, actor *models.User) error {
	return s.renderPostForm(c, actor, &forms.PostForm{Author: actor.Name}, nil, false)
}

// CreatePost publishes the submitted post and returns home.
func (s *Server) CreatePost(c *fiber.Ctx, actor *models.User) error {
	form := new(forms.PostForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Validate(); errs != nil {
		return s.renderPostForm(c, actor, form, errs, false)
	}

	post, err := s.postService.CreatePost(c.UserContext(), actor, postInput(form))
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			return s.renderPostForm(c, actor, form, errs, false)
		}
		return err
	}

	observability.PostsCreated.Inc()
	middleware.Logger.InfoContext(c.UserContext(), "post created",
		slog.Uint64("post_id", uint64(post.ID)))
	return c.Redirect("/")
}

// EditPostPage shows the post form prefilled from the stored post.
func (s *Server) EditPostPage(c *fiber.Ctx, actor *models.User) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}

	form := &forms.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Author:   post.Author.Name,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	return s.renderPostForm(c, actor, form, nil, true)
}

// UpdatePost saves the edited post and shows it.
func (s *Server) UpdatePost(c *fiber.Ctx, actor *models.User) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if _, err := s.postService.GetPost(c.UserContext(), id); err != nil {
		return err
	}

	form := new(forms.PostForm)
	if err := c.BodyParser(form); err != nil {
		return fiber.ErrBadRequest
	}
	if errs := form.Validate(); errs != nil {
		return s.renderPostForm(c, actor, form, errs, true)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), actor, id, postInput(form))
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			return s.renderPostForm(c, actor, form, errs, true)
		}
		return err
	}
	return c.Redirect(fmt.Sprintf("/post/%d", post.ID))
}

// DeletePost removes the post with its comments and returns home.
func (s *Server) DeletePost(c *fiber.Ctx, actor *models.User) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.postService.DeletePost(c.UserContext(), actor, id); err != nil {
		return err
	}

	observability.PostsDeleted.Inc()
	middleware.Logger.InfoContext(c.UserContext(), "post deleted", slog.Uint64("post_id", uint64(id)))
	return c.Redirect("/")
}

func (s *Server) renderPostForm(c *fiber.Ctx, actor *models.User, form *forms.PostForm, errs forms.Errors, edit bool) error {
	title := "New Post"
	if edit {
		title = "Edit Post"
	}
	p := page(c, actor, title)
	p.Form = form
	p.Errors = errs
	p.IsEdit = edit
	return c.Render("make-post", p)
}

func postInput(form *forms.PostForm) service.PostInput {
	return service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImgURL:   form.ImgURL,
		Body:     form.Body,
	}
}
