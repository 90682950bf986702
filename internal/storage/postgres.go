package storage

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/koti-agri/koti-backend/internal/models"
)

// DBStore writes the conversation log to PostgreSQL through gorm
type DBStore struct {
	db         *gorm.DB
	maxEntries int
}

// NewDBStore migrates the conversation_logs table and returns the store
func NewDBStore(db *gorm.DB, maxEntries int) (*DBStore, error) {
	if err := db.AutoMigrate(&models.ConversationLog{}); err != nil {
		return nil, fmt.Errorf("migrate conversation_logs: %w", err)
	}
	return &DBStore{db: db, maxEntries: normalizeCap(maxEntries)}, nil
}

func (s *DBStore) Name() string { return "postgres" }

// Append inserts the entry and trims rows beyond the cap in one transaction
func (s *DBStore) Append(ctx context.Context, entry models.ConversationLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry.ID = 0
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("insert conversation log: %w", err)
		}

		newest := tx.Model(&models.ConversationLog{}).
			Select("id").
			Order("id DESC").
			Limit(s.maxEntries)
		err := tx.Unscoped().
			Where("id NOT IN (?)", newest).
			Delete(&models.ConversationLog{}).Error
		if err != nil {
			return fmt.Errorf("trim conversation log: %w", err)
		}
		return nil
	})
}

func (s *DBStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
