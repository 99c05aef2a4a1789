// Package gorm provides the GORM-backed profile store used in
// production (PostgreSQL) and local development (SQLite).
package gorm

import (
	"context"
	"time"

	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileEntry is the persistence model for one cached nutrition
// profile. The normalized name is the unique key; refreshes overwrite
// the whole row including its timestamp.
type ProfileEntry struct {
	NormalizedName string    `gorm:"primaryKey;size:255"`
	Calories       float64   `gorm:"not null"`
	ProteinG       float64   `gorm:"not null"`
	CarbsG         float64   `gorm:"not null"`
	FatG           float64   `gorm:"not null"`
	SourceID       string    `gorm:"size:64"`
	LastUpdated    time.Time `gorm:"not null"`
}

// TableName overrides the default table name.
func (ProfileEntry) TableName() string {
	return "nutrition_profiles"
}

// ProfileStore implements outbound.ProfileStore using GORM.
type ProfileStore struct {
	db *gorm.DB
}

// NewProfileStore creates a new GORM profile store.
func NewProfileStore(db *gorm.DB) outbound.ProfileStore {
	return &ProfileStore{db: db}
}

// Get returns the entry for the key, or (nil, nil) on a miss.
func (s *ProfileStore) Get(ctx context.Context, normalizedName string) (*nutrition.Entry, error) {
	var model ProfileEntry
	err := s.db.WithContext(ctx).First(&model, "normalized_name = ?", normalizedName).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &nutrition.Entry{
		NormalizedName: model.NormalizedName,
		Profile: nutrition.Profile{
			Calories: model.Calories,
			ProteinG: model.ProteinG,
			CarbsG:   model.CarbsG,
			FatG:     model.FatG,
		},
		SourceID:    model.SourceID,
		LastUpdated: model.LastUpdated,
	}, nil
}

// Upsert inserts or overwrites the row keyed by normalized name.
func (s *ProfileStore) Upsert(ctx context.Context, entry nutrition.Entry) error {
	model := ProfileEntry{
		NormalizedName: entry.NormalizedName,
		Calories:       entry.Profile.Calories,
		ProteinG:       entry.Profile.ProteinG,
		CarbsG:         entry.Profile.CarbsG,
		FatG:           entry.Profile.FatG,
		SourceID:       entry.SourceID,
		LastUpdated:    entry.LastUpdated,
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized_name"}},
		UpdateAll: true,
	}).Create(&model).Error
}
