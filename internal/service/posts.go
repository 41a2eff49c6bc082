package service

import (
	"context"
	"errors"

	"faithconnect/community-api/internal/model"
	"faithconnect/community-api/internal/store"
	"faithconnect/community-api/pkg/validators"
)

type PostRepository interface {
	List(ctx context.Context) ([]model.Post, error)
	Create(ctx context.Context, p *model.Post) error
	ByID(ctx context.Context, id string) (*model.Post, error)
	IncrementLikes(ctx context.Context, id string) (*model.Post, error)
}

type PostService struct {
	posts PostRepository
}

func NewPostService(posts PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

// CreatePost stores a post owned by userID and returns it with the owner's
// name and country filled in
func (s *PostService) CreatePost(ctx context.Context, userID, content string) (*model.Post, error) {
	if err := validators.ContentValidator(content); err != nil {
		return nil, validation(err)
	}

	p := &model.Post{
		UserID:  userID,
		Content: content,
	}

	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}

	created, err := s.posts.ByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// LikePost adds one like. There is no per-user tracking, every call counts
func (s *PostService) LikePost(ctx context.Context, id string) (*model.Post, error) {
	p, err := s.posts.IncrementLikes(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, err
	}

	return p, nil
}
