package models

import "time"

type ArbitraryData struct {
	ID        string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time `gorm:"index"`
}

type StoredSession struct {
	ChatID    int64 `gorm:"primaryKey"`
	Token     string
	UpdatedAt time.Time
}
