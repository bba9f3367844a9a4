package repositories

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vieclam/jobportal/internal/domain/models"
	"gorm.io/gorm"
)

type Sessions struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

func (repo *Sessions) Save(ctx context.Context, chatID int64, token string) error {
	return repo.db.WithContext(ctx).Save(&models.StoredSession{
		ChatID: chatID,
		Token:  token,
	}).Error
}

// Get returns an empty token when the chat has no stored session.
func (repo *Sessions) Get(ctx context.Context, chatID int64) (string, error) {
	session := &models.StoredSession{}
	err := repo.db.WithContext(ctx).First(session, "chat_id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return session.Token, nil
}

func (repo *Sessions) Delete(ctx context.Context, chatID int64) error {
	return repo.db.WithContext(ctx).Delete(&models.StoredSession{}, "chat_id = ?", chatID).Error
}
