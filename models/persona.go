package models

import "time"

// Persona is a user-owned chatbot whose Instructions condition every model call made for it.
type Persona struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
