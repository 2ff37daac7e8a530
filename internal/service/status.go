package service

import (
	"context"
	"errors"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/database"
	"procflow/internal/models"
	"procflow/internal/workflow"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer = otel.Tracer("procflow/service")

type StatusView struct {
	ChatID  uint            `json:"chat_id"`
	Status  models.Status   `json:"status"`
	Allowed []models.Status `json:"allowed"`
	CanEdit bool            `json:"can_edit"`
}

// loadStatus reads the status row; lock takes a row lock where the store
// supports it. A missing row is NotFound.
func loadStatus(ctx context.Context, db *gorm.DB, chatID uint, lock bool) (models.Status, error) {
	var row models.ChatStatus
	err := statusQuery(db.WithContext(ctx), chatID, lock).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.NotFound("Chat status not found")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}
	return row.Status, nil
}

func statusQuery(db *gorm.DB, chatID uint, lock bool) *gorm.DB {
	q := db.Model(&models.ChatStatus{}).Where("chat_id = ?", chatID)
	if lock && database.IsPostgres(db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// GetStatus returns the current status together with what the caller may do.
func (s *Service) GetStatus(ctx context.Context, actor access.Identity, chatID uint) (*StatusView, error) {
	ref, err := access.ResolveChat(ctx, s.db, actor, chatID)
	if err != nil {
		return nil, err
	}
	status, err := loadStatus(ctx, s.db, ref.ChatID, false)
	if err != nil {
		return nil, err
	}
	return &StatusView{
		ChatID:  ref.ChatID,
		Status:  status,
		Allowed: workflow.Allowed(actor.Role, status),
		CanEdit: workflow.CanEdit(actor.Role, status),
	}, nil
}

// TransitionStatus moves a chat to target if the transition table allows it
// for the actor's role. The check and the write share one transaction and
// the update is conditional on the status read, so a concurrent transition
// makes this one fail instead of overwriting it.
func (s *Service) TransitionStatus(ctx context.Context, actor access.Identity, chatID uint, target string) (*StatusView, error) {
	ctx, span := tracer.Start(ctx, "service.TransitionStatus")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("chat.id", int64(chatID)),
		attribute.String("chat.status.target", target),
		attribute.String("user.role", string(actor.Role)),
	)

	to, ok := workflow.ParseStatus(target)
	if !ok {
		return nil, apperr.Validation("unknown status")
	}

	var from models.Status
	err := s.tx(ctx, func(tx *gorm.DB) error {
		ref, err := access.ResolveChat(ctx, tx, actor, chatID)
		if err != nil {
			return err
		}
		from, err = loadStatus(ctx, tx, ref.ChatID, true)
		if err != nil {
			return err
		}
		if err := workflow.CheckTransition(actor.Role, from, to); err != nil {
			return err
		}

		res := tx.Model(&models.ChatStatus{}).
			Where("chat_id = ? AND status = ?", ref.ChatID, from).
			Updates(map[string]interface{}{"status": to})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			// кто-то успел сменить статус между чтением и записью
			current, err := loadStatus(ctx, tx, ref.ChatID, false)
			if err != nil {
				return err
			}
			return apperr.ForbiddenTransition(string(current), string(to))
		}

		return database.CreateAuditLog(ctx, tx, actor.UserID, "chat", ref.ChatID, "status_change",
			string(from)+" -> "+string(to))
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", string(apperr.KindOf(err))))
		return nil, err
	}

	s.log.Info("chat status changed", "chat_id", chatID, "user_id", actor.UserID, "from", from, "to", to)
	return &StatusView{
		ChatID:  chatID,
		Status:  to,
		Allowed: workflow.Allowed(actor.Role, to),
		CanEdit: workflow.CanEdit(actor.Role, to),
	}, nil
}
