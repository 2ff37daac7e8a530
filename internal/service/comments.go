package service

import (
	"context"
	"html"
	"strings"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/database"
	"procflow/internal/models"

	"gorm.io/gorm"
)

// SanitizeComment trims and HTML-escapes comment text so stored markup is
// inert when displayed.
func SanitizeComment(text string) string {
	return html.EscapeString(strings.TrimSpace(text))
}

// AddComment stores an escaped comment with the actor's current role.
func (s *Service) AddComment(ctx context.Context, actor access.Identity, chatID uint, text string) (*models.Comment, error) {
	if blank(text) {
		return nil, apperr.Validation("comment text is required")
	}

	comment := models.Comment{
		ChatID:     chatID,
		AuthorRole: actor.Role,
		Text:       SanitizeComment(text),
	}
	err := s.tx(ctx, func(tx *gorm.DB) error {
		ref, err := access.ResolveChat(ctx, tx, actor, chatID)
		if err != nil {
			return err
		}
		if err := tx.Omit("Chat").Create(&comment).Error; err != nil {
			return apperr.FromDB(err, "Chat", "comment already exists")
		}
		return database.CreateAuditLog(ctx, tx, actor.UserID, "chat", ref.ChatID, "comment", "")
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the comments of a chat, oldest first.
func (s *Service) ListComments(ctx context.Context, actor access.Identity, chatID uint) ([]models.Comment, error) {
	ref, err := access.ResolveChat(ctx, s.db, actor, chatID)
	if err != nil {
		return nil, err
	}
	var out []models.Comment
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", ref.ChatID).
		Order("created_at asc, id asc").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
