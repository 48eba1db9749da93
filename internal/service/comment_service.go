package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
)

// MsgLoginToComment is flashed when an anonymous visitor submits a comment.
const MsgLoginToComment = "You need to log in or register to comment!"

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment stores text on post postID as written by actor.
func (s *CommentService) CreateComment(ctx context.Context, actor *models.User, postID uint, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, models.NewUnauthorizedError(MsgLoginToComment)
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.NewFieldError("comment_text", "This field is required.")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: actor.ID,
		PostID:   post.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *actor
	return comment, nil
}
