package service

import (
	"context"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/database"
	"procflow/internal/models"
	"procflow/internal/workflow"

	"gorm.io/gorm"
)

// CreateVersion appends a process version. Requires write access to the
// chat and a status in which the actor's role may edit.
func (s *Service) CreateVersion(ctx context.Context, actor access.Identity, chatID uint, processText, diagramSource string) (*models.ProcessVersion, error) {
	if blank(processText) {
		return nil, apperr.Validation("process_text is required")
	}

	version := models.ProcessVersion{
		ChatID:        chatID,
		ProcessText:   processText,
		DiagramSource: diagramSource,
	}
	err := s.tx(ctx, func(tx *gorm.DB) error {
		ref, err := access.ResolveChat(ctx, tx, actor, chatID)
		if err != nil {
			return err
		}
		status, err := loadStatus(ctx, tx, ref.ChatID, true)
		if err != nil {
			return err
		}
		if !workflow.CanEdit(actor.Role, status) {
			return apperr.Forbidden("chat cannot be edited in status " + string(status))
		}

		// все колонки явно, включая пустой diagram_source
		if err := tx.Select("ChatID", "ProcessText", "DiagramSource", "CreatedAt").Create(&version).Error; err != nil {
			return apperr.FromDB(err, "Chat", "version already exists")
		}
		return database.CreateAuditLog(ctx, tx, actor.UserID, "chat", ref.ChatID, "version", "")
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ListVersions returns all versions of a chat, newest first.
func (s *Service) ListVersions(ctx context.Context, actor access.Identity, chatID uint) ([]models.ProcessVersion, error) {
	ref, err := access.ResolveChat(ctx, s.db, actor, chatID)
	if err != nil {
		return nil, err
	}
	var out []models.ProcessVersion
	if err := s.db.WithContext(ctx).
		Where("chat_id = ?", ref.ChatID).
		Order("created_at desc, id desc").
		Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
