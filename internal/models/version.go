package models

import "time"

// ProcessVersion: неизменяемый снимок текста процесса и исходника диаграммы
type ProcessVersion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ChatID uint `gorm:"not null;index" json:"chat_id"`
	Chat   Chat `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	ProcessText   string `gorm:"type:text;not null" json:"process_text"`
	DiagramSource string `gorm:"type:text;not null" json:"diagram_source"`
}
