package services

import (
	"context"
	"errors"
	"strings"

	"ChatBuddy/models"

	"gorm.io/gorm"
)

// DefaultPersonas are created for every new account.
var DefaultPersonas = []models.Persona{
	{
		Name:         "Travel Guide",
		Instructions: "You are a knowledgeable travel guide providing information about destinations, itineraries, and cultural tips.",
	},
	{
		Name:         "Motivational Coach",
		Instructions: "You are an enthusiastic motivational coach helping users achieve their goals with positive reinforcement.",
	},
}

// PersonaRepository owns chatbot definitions scoped to a user.
type PersonaRepository struct {
	db *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

func (r *PersonaRepository) SeedDefaults(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		seeds := make([]models.Persona, len(DefaultPersonas))
		for i, p := range DefaultPersonas {
			seeds[i] = models.Persona{UserID: userID, Name: p.Name, Instructions: p.Instructions}
		}
		return tx.Create(&seeds).Error
	})
}

// Create inserts a persona. Names need not be unique per user.
func (r *PersonaRepository) Create(ctx context.Context, userID uint, name, instructions string) (*models.Persona, error) {
	name = strings.TrimSpace(name)
	instructions = strings.TrimSpace(instructions)
	if name == "" || instructions == "" {
		return nil, invalidf("name and instructions are required")
	}
	p := models.Persona{UserID: userID, Name: name, Instructions: instructions}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListFor returns the user's personas in insertion order.
func (r *PersonaRepository) ListFor(ctx context.Context, userID uint) ([]models.Persona, error) {
	var out []models.Persona
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get does not check ownership; the orchestrator does.
func (r *PersonaRepository) Get(ctx context.Context, personaID uint) (*models.Persona, error) {
	var p models.Persona
	err := r.db.WithContext(ctx).First(&p, personaID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonaRepository) CountFor(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Persona{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func userExists(tx *gorm.DB, userID uint) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func personaExists(tx *gorm.DB, personaID uint) error {
	var n int64
	if err := tx.Model(&models.Persona{}).Where("id = ?", personaID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
