// Package workflow holds the chat lifecycle rules: which role may move a chat
// between statuses and in which statuses process content may be edited.
package workflow

import (
	"procflow/internal/apperr"
	"procflow/internal/models"
)

// Initial is the status every chat is created with.
const Initial = models.StatusDraft

var statuses = []models.Status{
	models.StatusDraft,
	models.StatusPendingReview,
	models.StatusNeedsRevision,
	models.StatusCompleted,
	models.StatusArchived,
}

// transitions is the only place the lifecycle rules live.
var transitions = map[models.UserRole]map[models.Status][]models.Status{
	models.RoleUser: {
		models.StatusDraft:         {models.StatusPendingReview},
		models.StatusNeedsRevision: {models.StatusPendingReview},
	},
	models.RoleAdmin: {
		models.StatusPendingReview: {models.StatusNeedsRevision, models.StatusCompleted},
		models.StatusCompleted:     {models.StatusArchived},
	},
}

// Statuses lists every known status in lifecycle order.
func Statuses() []models.Status {
	out := make([]models.Status, len(statuses))
	copy(out, statuses)
	return out
}

func ParseStatus(s string) (models.Status, bool) {
	for _, st := range statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Allowed returns the statuses role may move a chat to from `from`.
func Allowed(role models.UserRole, from models.Status) []models.Status {
	next := transitions[role][from]
	out := make([]models.Status, len(next))
	copy(out, next)
	return out
}

func CanTransition(role models.UserRole, from, to models.Status) bool {
	for _, st := range transitions[role][from] {
		if st == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a forbidden_transition error when the move is not
// in the table.
func CheckTransition(role models.UserRole, from, to models.Status) error {
	if !CanTransition(role, from, to) {
		return apperr.ForbiddenTransition(string(from), string(to))
	}
	return nil
}

// CanEdit reports whether role may append process versions while the chat is
// in status. Independent of the transition table.
func CanEdit(role models.UserRole, status models.Status) bool {
	switch role {
	case models.RoleUser:
		return status == models.StatusDraft || status == models.StatusNeedsRevision
	case models.RoleAdmin:
		if _, ok := ParseStatus(string(status)); !ok {
			return false
		}
		return status != models.StatusCompleted && status != models.StatusArchived
	default:
		return false
	}
}

// CanDelete reports whether role may delete a chat in status. Users lose the
// right once the chat is handed over for review; admins keep it.
func CanDelete(role models.UserRole, status models.Status) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return status == models.StatusDraft || status == models.StatusNeedsRevision
	default:
		return false
	}
}

// Undeletable lists the statuses that block role from deleting a chat.
func Undeletable(role models.UserRole) []models.Status {
	var out []models.Status
	for _, st := range statuses {
		if !CanDelete(role, st) {
			out = append(out, st)
		}
	}
	return out
}
