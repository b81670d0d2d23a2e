package models

import (
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryPost  Category = "post"
	CategoryStory Category = "story"
)

func (c Category) Valid() bool {
	return c == CategoryPost || c == CategoryStory
}

// CreativeRecord is a one-shot prompt/response pair. It never feeds back into a model call.
type CreativeRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PersonaID uint           `gorm:"not null;index:idx_creative_persona_category,priority:1" json:"chatbot_id"`
	Category  Category       `gorm:"size:8;not null;index:idx_creative_persona_category,priority:2;check:category IN ('post', 'story')" json:"category"`
	Prompt    string         `gorm:"type:text;not null" json:"prompt"`
	Response  string         `gorm:"type:text;not null" json:"response"`
	Params    datatypes.JSON `json:"params,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Persona   *Persona       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
