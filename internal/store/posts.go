package store

import (
	"context"
	"fmt"
	"time"

	"faithconnect/community-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// List returns every post, newest first, with the owner attached
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	posts := []model.Post{}

	err := withAuthor(s.db.WithContext(ctx)).
		Order("created_at desc").
		Find(&posts).
		Error
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (s *PostStore) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		id, err := newID()
		if err != nil {
			return fmt.Errorf("failed to generate post ID, %w", err)
		}
		p.ID = id
	}

	// The author is only ever read, never written through a post
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *PostStore) ByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	err := withAuthor(s.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&p).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &p, nil
}

// IncrementLikes adds one like in a single UPDATE statement so concurrent
// calls never overwrite each other
func (s *PostStore) IncrementLikes(ctx context.Context, id string) (*model.Post, error) {
	r := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"likes":      gorm.Expr("likes + ?", 1),
			"updated_at": time.Now().UTC(),
		})
	if r.Error != nil {
		return nil, r.Error
	}

	if r.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.ByID(ctx, id)
}
