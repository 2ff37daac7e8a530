package models

import "time"

// Department принадлежит ровно одному пользователю, удаляется вместе с ним
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"not null;uniqueIndex:idx_department_user_name" json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Name         string `gorm:"size:255;not null;uniqueIndex:idx_department_user_name" json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`
}
