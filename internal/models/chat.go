package models

import "time"

type Status string

const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusNeedsRevision Status = "needs_revision"
	StatusCompleted     Status = "completed"
	StatusArchived      Status = "archived"
)

// Chat: единица работы: один процесс, его версии, комментарии и статус
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	DepartmentID uint       `gorm:"not null;index" json:"department_id"`
	Department   Department `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name         string `gorm:"size:255;not null" json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// ChatStatus создаётся в той же транзакции, что и чат (1:1)
type ChatStatus struct {
	ChatID    uint      `gorm:"primaryKey;autoIncrement:false" json:"chat_id"`
	Chat      Chat      `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	Status    Status    `gorm:"type:varchar(32);not null" json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
