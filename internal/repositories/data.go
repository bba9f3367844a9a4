package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/vieclam/jobportal/internal/domain/models"
	"gorm.io/gorm"
)

// Data stores opaque blobs: saved bot state and onboarding drafts.
type Data struct {
	db *gorm.DB
}

func NewDataRepository(db *gorm.DB) *Data {
	return &Data{db: db}
}

func (repo *Data) Save(ctx context.Context, id string, data []byte) error {
	return repo.db.WithContext(ctx).Save(&models.ArbitraryData{
		ID:    id,
		Value: data,
	}).Error
}

func (repo *Data) Load(ctx context.Context, id string) ([]byte, error) {
	data := &models.ArbitraryData{}
	err := repo.db.WithContext(ctx).First(data, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data.Value, nil
}

func (repo *Data) LoadAndRemove(ctx context.Context, id string) ([]byte, error) {
	data, err := repo.Load(ctx, id)
	if data == nil || err != nil {
		return nil, err
	}
	err = repo.Remove(ctx, id)
	return data, err
}

func (repo *Data) Remove(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Delete(&models.ArbitraryData{}, "id = ?", id).Error
}

func (repo *Data) RemoveOlderThan(ctx context.Context, prefix string, expirationTime time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("id LIKE ? AND updated_at < ?", prefix+"%", expirationTime.UTC()).
		Delete(&models.ArbitraryData{})
	return result.RowsAffected, result.Error
}
