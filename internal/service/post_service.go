package service

import (
	"context"
	"errors"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
)

// MsgDuplicateTitle is attached to the title field when another post uses it.
const MsgDuplicateTitle = "A post with this title already exists."

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

// PostInput carries the validated post form. The author name typed on the
// form is not part of it: posts belong to the acting user.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

// WithClock replaces the clock used to stamp post dates.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	s.now = now
	return s
}

func requireAdmin(actor *models.User) error {
	if actor == nil || !actor.IsAdmin {
		return models.NewForbiddenError("Admin access required")
	}
	return nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.BlogPost, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.BlogPost, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost publishes a post authored by actor and dated today.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.BlogPost, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, in.Title, 0); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		ImgURL:   in.ImgURL,
		Date:     s.now().Format(models.PostDateLayout),
		AuthorID: actor.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, titleConflict(err)
	}
	post.Author = *actor
	return post, nil
}

// UpdatePost overwrites the editable fields and reassigns the post to actor.
// The original date is kept.
func (s *PostService) UpdatePost(ctx context.Context, actor *models.User, id uint, in PostInput) (*models.BlogPost, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, in.Title, post.ID); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Subtitle = in.Subtitle
	post.ImgURL = in.ImgURL
	post.Body = in.Body
	post.AuthorID = actor.ID
	post.Author = *actor

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, titleConflict(err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, actor *models.User, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func (s *PostService) ensureTitleFree(ctx context.Context, title string, selfID uint) error {
	other, err := s.postRepo.GetByTitle(ctx, title)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return models.NewFieldError("title", MsgDuplicateTitle)
	}
	return nil
}

func titleConflict(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return models.NewFieldError("title", MsgDuplicateTitle)
	}
	return err
}
