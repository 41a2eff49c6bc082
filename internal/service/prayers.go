package service

import (
	"context"
	"errors"
	"strings"

	"faithconnect/community-api/internal/model"
	"faithconnect/community-api/internal/store"
	"faithconnect/community-api/pkg/validators"
)

type PrayerRepository interface {
	List(ctx context.Context) ([]model.Prayer, error)
	Create(ctx context.Context, p *model.Prayer) error
	IncrementAmen(ctx context.Context, id string) (*model.Prayer, error)
}

type PrayerService struct {
	prayers PrayerRepository
}

func NewPrayerService(prayers PrayerRepository) *PrayerService {
	return &PrayerService{prayers: prayers}
}

func (s *PrayerService) ListPrayers(ctx context.Context) ([]model.Prayer, error) {
	return s.prayers.List(ctx)
}

// SubmitPrayer needs no account. A missing or blank name becomes "Anonymous"
func (s *PrayerService) SubmitPrayer(ctx context.Context, name, message string) (*model.Prayer, error) {
	if err := validators.MessageValidator(message); err != nil {
		return nil, validation(err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = model.AnonymousName
	}

	if err := validators.NameValidator(name); err != nil {
		return nil, validation(err)
	}

	p := &model.Prayer{
		Name:    name,
		Message: message,
	}

	if err := s.prayers.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *PrayerService) AmenPrayer(ctx context.Context, id string) (*model.Prayer, error) {
	p, err := s.prayers.IncrementAmen(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPrayerNotFound
		}

		return nil, err
	}

	return p, nil
}
