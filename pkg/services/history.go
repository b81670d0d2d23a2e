package services

import (
	"context"

	"ChatBuddy/models"

	"gorm.io/gorm"
)

// ConversationHistory owns the append-only message log of each persona.
type ConversationHistory struct {
	db *gorm.DB
}

func NewConversationHistory(db *gorm.DB) *ConversationHistory {
	return &ConversationHistory{db: db}
}

func (h *ConversationHistory) Append(ctx context.Context, personaID uint, content string, role models.Role) (*models.Message, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	msg := models.Message{PersonaID: personaID, Content: content, Role: role}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := personaExists(tx, personaID); err != nil {
			return err
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// HistoryFor returns the transcript oldest first.
func (h *ConversationHistory) HistoryFor(ctx context.Context, personaID uint) ([]models.Message, error) {
	var out []models.Message
	err := h.db.WithContext(ctx).
		Where("persona_id = ?", personaID).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ToModelHistory maps stored roles onto the provider vocabulary, preserving order.
func ToModelHistory(msgs []models.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		speaker := SpeakerUser
		if m.Role == models.RoleBot {
			speaker = SpeakerModel
		}
		out = append(out, ChatMessage{Role: speaker, Text: m.Content})
	}
	return out
}
