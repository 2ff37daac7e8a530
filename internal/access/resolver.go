package access

import (
	"context"
	"errors"

	"procflow/internal/apperr"

	"gorm.io/gorm"
)

// ChatRef is the ownership chain of a chat as stored, never as supplied by
// the client.
type ChatRef struct {
	ChatID       uint
	DepartmentID uint
	OwnerUserID  uint
}

type DepartmentRef struct {
	DepartmentID uint
	OwnerUserID  uint
}

// Authorize is the pure ownership predicate: admins see everything, users
// only what they own. Anything else is denied.
func Authorize(id Identity, ownerUserID uint) error {
	if !id.Valid() {
		return apperr.Forbidden("access denied")
	}
	if id.IsAdmin() {
		return nil
	}
	if ownerUserID == 0 || ownerUserID != id.UserID {
		return apperr.Forbidden("access denied")
	}
	return nil
}

type chatRow struct {
	ChatID       uint
	DepartmentID uint
	OwnerUserID  *uint
}

// ResolveChat loads chat -> department -> user in one query and authorizes
// id against the owner found there. db may be a transaction.
func ResolveChat(ctx context.Context, db *gorm.DB, id Identity, chatID uint) (ChatRef, error) {
	if !id.Valid() {
		return ChatRef{}, apperr.Forbidden("access denied")
	}
	if chatID == 0 {
		return ChatRef{}, apperr.NotFound("Chat not found")
	}

	var row chatRow
	err := db.WithContext(ctx).
		Table("chats").
		Select("chats.id AS chat_id, chats.department_id AS department_id, departments.user_id AS owner_user_id").
		Joins("LEFT JOIN departments ON departments.id = chats.department_id").
		Where("chats.id = ?", chatID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ChatRef{}, apperr.NotFound("Chat not found")
	}
	if err != nil {
		return ChatRef{}, apperr.Internal(err)
	}
	// осиротевший чат: отдела уже нет
	if row.OwnerUserID == nil {
		return ChatRef{}, apperr.NotFound("Department not found")
	}

	if err := Authorize(id, *row.OwnerUserID); err != nil {
		return ChatRef{}, err
	}
	return ChatRef{ChatID: row.ChatID, DepartmentID: row.DepartmentID, OwnerUserID: *row.OwnerUserID}, nil
}

type departmentRow struct {
	DepartmentID uint
	OwnerUserID  uint
}

func ResolveDepartment(ctx context.Context, db *gorm.DB, id Identity, departmentID uint) (DepartmentRef, error) {
	if !id.Valid() {
		return DepartmentRef{}, apperr.Forbidden("access denied")
	}
	if departmentID == 0 {
		return DepartmentRef{}, apperr.NotFound("Department not found")
	}

	var row departmentRow
	err := db.WithContext(ctx).
		Table("departments").
		Select("departments.id AS department_id, departments.user_id AS owner_user_id").
		Where("departments.id = ?", departmentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DepartmentRef{}, apperr.NotFound("Department not found")
	}
	if err != nil {
		return DepartmentRef{}, apperr.Internal(err)
	}

	if err := Authorize(id, row.OwnerUserID); err != nil {
		return DepartmentRef{}, err
	}
	return DepartmentRef{DepartmentID: row.DepartmentID, OwnerUserID: row.OwnerUserID}, nil
}
