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

// CreateDepartment creates a department owned by userID (0 means the actor).
// Regular users may only create departments for themselves.
func (s *Service) CreateDepartment(ctx context.Context, actor access.Identity, userID uint, name, password string) (*models.Department, error) {
	if !actor.Valid() {
		return nil, apperr.Forbidden("access denied")
	}
	name = strings.TrimSpace(name)
	if name == "" || blank(password) {
		return nil, apperr.Validation("department name and password are required")
	}
	if userID == 0 {
		userID = actor.UserID
	}
	if !actor.IsAdmin() && userID != actor.UserID {
		return nil, apperr.Forbidden("cannot create departments for another user")
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	dept := models.Department{UserID: userID, Name: name, PasswordHash: hash}
	err = s.tx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(&dept).Error; err != nil {
			return apperr.FromDB(err, "User", "department with this name already exists")
		}
		return database.CreateAuditLog(ctx, tx, actor.UserID, "department", dept.ID, "create", "created department: "+dept.Name)
	})
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

// ListDepartments: admins see all departments, users their own.
func (s *Service) ListDepartments(ctx context.Context, actor access.Identity) ([]models.Department, error) {
	if !actor.Valid() {
		return nil, apperr.Forbidden("access denied")
	}
	q := s.db.WithContext(ctx).Order("name asc, id asc")
	if !actor.IsAdmin() {
		q = q.Where("user_id = ?", actor.UserID)
	}
	var out []models.Department
	if err := q.Find(&out).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// DeleteDepartment removes the department; its chats and their history
// cascade. Users cannot delete a department holding chats they could not
// delete one by one.
func (s *Service) DeleteDepartment(ctx context.Context, actor access.Identity, departmentID uint) error {
	return s.tx(ctx, func(tx *gorm.DB) error {
		ref, err := access.ResolveDepartment(ctx, tx, actor, departmentID)
		if err != nil {
			return err
		}
		// каскад не должен обходить запрет на удаление чатов
		if blocked := workflow.Undeletable(actor.Role); len(blocked) > 0 {
			var n int64
			if err := tx.Model(&models.ChatStatus{}).
				Joins("JOIN chats ON chats.id = chat_statuses.chat_id").
				Where("chats.department_id = ? AND chat_statuses.status IN ?", ref.DepartmentID, blocked).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return apperr.Forbidden("department has chats under review or closed")
			}
		}
		if err := tx.Delete(&models.Department{}, ref.DepartmentID).Error; err != nil {
			return err
		}
		return database.CreateAuditLog(ctx, tx, actor.UserID, "department", ref.DepartmentID, "delete", "")
	})
}

// UnlockDepartment verifies the department password.
func (s *Service) UnlockDepartment(ctx context.Context, actor access.Identity, departmentID uint, password string) error {
	if _, err := access.ResolveDepartment(ctx, s.db, actor, departmentID); err != nil {
		return err
	}
	var dept models.Department
	if err := s.db.WithContext(ctx).Select("password_hash").Take(&dept, departmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Department not found")
		}
		return apperr.Internal(err)
	}
	if !checkSecret(dept.PasswordHash, password) {
		return apperr.Forbidden("wrong department password")
	}
	return nil
}
