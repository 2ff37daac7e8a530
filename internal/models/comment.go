package models

import "time"

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ChatID uint `gorm:"not null;index" json:"chat_id"`
	Chat   Chat `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// роль автора на момент публикации, не внешний ключ
	AuthorRole UserRole `gorm:"type:varchar(20);not null" json:"author_role"`
	Text       string   `gorm:"type:text;not null" json:"text"`
}
