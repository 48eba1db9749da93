package seed

import (
	"context"
	"fmt"
	"log/slog"

	"quill/internal/middleware"
	"quill/internal/models"

	"gorm.io/gorm"
)

// Options controls a seeding run.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	Password        string
	HashCost        int
	Clean           bool
	// Seed makes runs reproducible when non-zero.
	Seed int64
}

// Result summarizes what a run created.
type Result struct {
	Users    []*models.User
	Posts    []*models.BlogPost
	Comments int
}

// Run populates db according to opts. Posts are spread across the
// administrators; comments come from any user.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.Users < 1 {
		return nil, fmt.Errorf("seed: need at least one user, got %d", opts.Users)
	}

	if opts.Clean {
		if err := Clear(db); err != nil {
			return nil, err
		}
	}

	f, err := NewFactory(db, opts.Password, opts.HashCost, opts.Seed)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	var admins []*models.User
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		res.Users = append(res.Users, u)
		if u.IsAdmin {
			admins = append(admins, u)
		}
	}
	if len(admins) == 0 {
		// The database already had accounts, so nobody was promoted.
		if err := db.WithContext(ctx).Where("is_admin = ?", true).Find(&admins).Error; err != nil {
			return nil, err
		}
		if len(admins) == 0 {
			return nil, fmt.Errorf("seed: no administrator available to author posts")
		}
	}

	for i := 0; i < opts.Posts; i++ {
		post, err := f.CreatePost(ctx, admins[i%len(admins)])
		if err != nil {
			return nil, fmt.Errorf("seed post %d: %w", i, err)
		}
		res.Posts = append(res.Posts, post)

		for j := 0; j < opts.CommentsPerPost; j++ {
			author := res.Users[f.faker.Number(0, len(res.Users)-1)]
			if _, err := f.CreateComment(ctx, author, post); err != nil {
				return nil, fmt.Errorf("seed comment on post %d: %w", post.ID, err)
			}
			res.Comments++
		}
	}

	middleware.Logger.Info("seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", len(res.Posts)),
		slog.Int("comments", res.Comments))
	return res, nil
}

// Clear removes every comment, post and user.
func Clear(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{&models.Comment{}, &models.BlogPost{}, &models.User{}} {
			if err := all.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}
