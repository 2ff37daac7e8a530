package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"index" json:"user_id"`

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity" json:"entity"` // "chat", "department"
	EntityID uint   `gorm:"index:idx_audit_entity" json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "status_change" и т.п.
	Details  string `gorm:"type:text" json:"details"`
}
