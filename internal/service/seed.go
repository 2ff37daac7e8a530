package service

import (
	"context"
	"errors"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/config"
	"procflow/internal/models"

	"gorm.io/gorm"
)

type SeedResult struct {
	UsersCreated       int
	DepartmentsCreated int
}

// Seed provisions the users and departments of a seed document. Existing
// users and departments (by name) are left untouched.
func (s *Service) Seed(ctx context.Context, seed *config.Seed) (SeedResult, error) {
	var res SeedResult
	for _, su := range seed.Users {
		var user models.User
		err := s.db.WithContext(ctx).Where("name = ?", su.Name).Take(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := s.createUser(ctx, NewUser{Name: su.Name, Password: su.Password, Role: models.UserRole(su.Role)})
			if err != nil {
				return res, err
			}
			user = *created
			res.UsersCreated++
		case err != nil:
			return res, apperr.Internal(err)
		default:
			s.log.Debug("seed user exists, skipping", "name", su.Name)
		}

		owner := access.FromUser(user)
		for _, sd := range su.Departments {
			_, err := s.CreateDepartment(ctx, owner, user.ID, sd.Name, sd.Password)
			if apperr.Is(err, apperr.KindConflict) {
				continue
			}
			if err != nil {
				return res, err
			}
			res.DepartmentsCreated++
		}
	}
	return res, nil
}
