package database

import (
	"context"

	"procflow/internal/models"

	"gorm.io/gorm"
)

// CreateAuditLog пишет запись журнала; tx это та же транзакция, что и само изменение
func CreateAuditLog(ctx context.Context, tx *gorm.DB, userID uint, entity string, entityID uint, action, details string) error {
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	return tx.WithContext(ctx).Create(&record).Error
}

// ListAuditLogs: история сущности, от старых к новым
func ListAuditLogs(ctx context.Context, db *gorm.DB, entity string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at asc, id asc").
		Limit(200).
		Find(&logs).Error
	return logs, err
}
