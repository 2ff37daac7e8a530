package service

import (
	"context"
	"errors"
	"strings"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/database"
	"procflow/internal/models"
	"procflow/internal/workflow"

	"gorm.io/gorm"
)

type ChatView struct {
	models.Chat
	Status        models.Status          `json:"status"`
	LatestVersion *models.ProcessVersion `json:"latest_version"`
}

// CreateChat creates a chat and its draft status row atomically. The
// department is resolved server-side; a missing one is a validation error.
func (s *Service) CreateChat(ctx context.Context, actor access.Identity, departmentID uint, name, password string) (*ChatView, error) {
	name = strings.TrimSpace(name)
	if name == "" || blank(password) {
		return nil, apperr.Validation("chat name and password are required")
	}
	if departmentID == 0 {
		return nil, apperr.Validation("department_id is required")
	}
	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	chat := models.Chat{DepartmentID: departmentID, Name: name, PasswordHash: hash}
	err = s.tx(ctx, func(tx *gorm.DB) error {
		if _, err := access.ResolveDepartment(ctx, tx, actor, departmentID); err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.Validation("Department not found")
			}
			return err
		}
		if err := tx.Omit("Department").Create(&chat).Error; err != nil {
			return apperr.FromDB(err, "Department", "chat already exists")
		}
		status := models.ChatStatus{ChatID: chat.ID, Status: workflow.Initial}
		if err := tx.Omit("Chat").Create(&status).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, actor.UserID, "chat", chat.ID, "create", "created chat: "+chat.Name)
	})
	if err != nil {
		return nil, err
	}
	return &ChatView{Chat: chat, Status: workflow.Initial}, nil
}

// ListChats lists chats visible to actor, optionally within one department.
func (s *Service) ListChats(ctx context.Context, actor access.Identity, departmentID uint) ([]models.Chat, error) {
	if !actor.Valid() {
		return nil, apperr.Forbidden("access denied")
	}
	if departmentID != 0 {
		if _, err := access.ResolveDepartment(ctx, s.db, actor, departmentID); err != nil {
			return nil, err
		}
	}

	q := s.db.WithContext(ctx).Model(&models.Chat{}).
		Joins("JOIN departments ON departments.id = chats.department_id").
		Order("chats.created_at desc, chats.id desc")
	if !actor.IsAdmin() {
		q = q.Where("departments.user_id = ?", actor.UserID)
	}
	if departmentID != 0 {
		q = q.Where("chats.department_id = ?", departmentID)
	}
	var out []models.Chat
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// GetChat returns the chat with its current status and latest version.
func (s *Service) GetChat(ctx context.Context, actor access.Identity, chatID uint) (*ChatView, error) {
	ref, err := access.ResolveChat(ctx, s.db, actor, chatID)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var view ChatView
	if err := db.Take(&view.Chat, ref.ChatID).Error; err != nil {
		return nil, apperr.FromDB(err, "Chat", "")
	}
	status, err := loadStatus(ctx, db, ref.ChatID, false)
	if err != nil {
		return nil, err
	}
	view.Status = status

	var latest models.ProcessVersion
	err = db.Where("chat_id = ?", ref.ChatID).Order("created_at desc, id desc").Take(&latest).Error
	switch {
	case err == nil:
		view.LatestVersion = &latest
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperr.Internal(err)
	}
	return &view, nil
}

// DeleteChat removes a chat with its history. Users may only delete chats
// they could still edit; review and closed chats are left to admins.
func (s *Service) DeleteChat(ctx context.Context, actor access.Identity, chatID uint) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		ref, err := access.ResolveChat(ctx, tx, actor, chatID)
		if err != nil {
			return err
		}
		status, err := loadStatus(ctx, tx, ref.ChatID, true)
		if err != nil {
			return err
		}
		if !workflow.CanDelete(actor.Role, status) {
			return apperr.Forbidden("chat cannot be deleted in status " + string(status))
		}
		if err := tx.Delete(&models.Chat{}, ref.ChatID).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, actor.UserID, "chat", ref.ChatID, "delete", "")
	})
}

// UnlockChat verifies the chat password.
func (s *Service) UnlockChat(ctx context.Context, actor access.Identity, chatID uint, password string) error {
	ref, err := access.ResolveChat(ctx, s.db, actor, chatID)
	if err != nil {
		return err
	}
	var chat models.Chat
	if err := s.db.WithContext(ctx).Select("password_hash").Take(&chat, ref.ChatID).Error; err != nil {
		return apperr.FromDB(err, "Chat", "")
	}
	if !checkSecret(chat.PasswordHash, password) {
		return apperr.Forbidden("wrong chat password")
	}
	return nil
}

// ListHistory returns the audit trail of a chat, oldest first.
func (s *Service) ListHistory(ctx context.Context, actor access.Identity, chatID uint) ([]models.AuditLog, error) {
	ref, err := access.ResolveChat(ctx, s.db, actor, chatID)
	if err != nil {
		return nil, err
	}
	logs, err := database.ListAuditLogs(ctx, s.db, "chat", ref.ChatID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return logs, nil
}
