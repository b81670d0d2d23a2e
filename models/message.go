package models

import "time"

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBot
}

// Message is one append-only chat turn. Transcript order is (created_at, id) ascending.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PersonaID uint      `gorm:"not null;index:idx_messages_persona_created,priority:1" json:"chatbot_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Role      Role      `gorm:"size:8;not null;check:role IN ('user', 'bot')" json:"role"`
	CreatedAt time.Time `gorm:"index:idx_messages_persona_created,priority:2" json:"created_at"`
	Persona   *Persona  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
