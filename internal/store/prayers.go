package store

import (
	"context"
	"fmt"
	"time"

	"faithconnect/community-api/internal/model"

	"gorm.io/gorm"
)

type PrayerStore struct {
	db *gorm.DB
}

func NewPrayerStore(db *gorm.DB) *PrayerStore {
	return &PrayerStore{db: db}
}

func (s *PrayerStore) List(ctx context.Context) ([]model.Prayer, error) {
	prayers := []model.Prayer{}

	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Find(&prayers).
		Error
	if err != nil {
		return nil, err
	}

	return prayers, nil
}

func (s *PrayerStore) Create(ctx context.Context, p *model.Prayer) error {
	if p.ID == "" {
		id, err := newID()
		if err != nil {
			return fmt.Errorf("failed to generate prayer ID, %w", err)
		}
		p.ID = id
	}

	if p.Name == "" {
		p.Name = model.AnonymousName
	}

	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *PrayerStore) ByID(ctx context.Context, id string) (*model.Prayer, error) {
	var p model.Prayer

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}

	return &p, nil
}

func (s *PrayerStore) IncrementAmen(ctx context.Context, id string) (*model.Prayer, error) {
	r := s.db.WithContext(ctx).
		Model(&model.Prayer{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"amen_count": gorm.Expr("amen_count + ?", 1),
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
