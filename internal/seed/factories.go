// Package seed fills a development database with believable users, posts
// and comments. It is meant for local work and demos only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them through the repositories,
// so seeded rows obey the same rules as real ones (the first account is the
// administrator, titles are unique).
type Factory struct {
	faker    *gofakeit.Faker
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository

	passwordHash string
	titles       map[string]struct{}
	seq          int
	now          func() time.Time
}

// NewFactory returns a Factory writing to db. Every user it creates signs
// in with password. A zero seed picks a random one.
func NewFactory(db *gorm.DB, password string, hashCost int, seed int64) (*Factory, error) {
	hash, err := service.HashPassword(password, hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		faker:        gofakeit.New(seed),
		users:        repository.NewUserRepository(db),
		posts:        repository.NewPostRepository(db),
		comments:     repository.NewCommentRepository(db),
		passwordHash: hash,
		titles:       make(map[string]struct{}),
		now:          time.Now,
	}, nil
}

// CreateUser persists a sample user. Optional overrides run before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	user := &models.User{
		Name:     f.faker.Name(),
		Email:    fmt.Sprintf("%s%d@example.com", strings.ToLower(f.faker.Username()), f.seq),
		Password: f.passwordHash,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost returns an unsaved post by author dated within the last year.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.BlogPost)) *models.BlogPost {
	now := f.now()
	paragraphs := make([]string, 0, 4)
	for i := 0; i < 2+f.faker.Number(0, 2); i++ {
		paragraphs = append(paragraphs, "<p>"+f.faker.Paragraph(1, 4, 12, " ")+"</p>")
	}

	post := &models.BlogPost{
		Title:    f.uniqueTitle(),
		Subtitle: strings.TrimSuffix(f.faker.Sentence(8), "."),
		Date:     f.faker.DateRange(now.AddDate(-1, 0, 0), now).Format(models.PostDateLayout),
		Body:     strings.Join(paragraphs, "\n"),
		ImgURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/600", f.faker.UUID()),
		AuthorID: author.ID,
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a sample post by author.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.BlogPost)) (*models.BlogPost, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment by author on post.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.BlogPost, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     f.faker.Sentence(f.faker.Number(4, 16)),
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	for _, override := range overrides {
		override(comment)
	}

	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) uniqueTitle() string {
	base := strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 6)), ".")
	title := base
	for n := 2; ; n++ {
		if _, taken := f.titles[title]; !taken {
			break
		}
		title = fmt.Sprintf("%s (%d)", base, n)
	}
	f.titles[title] = struct{}{}
	return title
}
