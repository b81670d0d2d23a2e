package services

import (
	"context"
	"encoding/json"

	"ChatBuddy/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreativeService owns one-shot prompt/response records per persona and category.
type CreativeService struct {
	db *gorm.DB
}

func NewCreativeService(db *gorm.DB) *CreativeService {
	return &CreativeService{db: db}
}

// Record stores a generation. params holds the options that produced prompt and may be nil.
func (s *CreativeService) Record(ctx context.Context, personaID uint, category models.Category, prompt, response string, params any) (*models.CreativeRecord, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	rec := models.CreativeRecord{PersonaID: personaID, Category: category, Prompt: prompt, Response: response}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		rec.Params = datatypes.JSON(raw)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := personaExists(tx, personaID); err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// HistoryFor returns records of one category, newest first.
func (s *CreativeService) HistoryFor(ctx context.Context, personaID uint, category models.Category) ([]models.CreativeRecord, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	var out []models.CreativeRecord
	err := s.db.WithContext(ctx).
		Where("persona_id = ? AND category = ?", personaID, category).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
