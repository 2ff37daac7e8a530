package service

import (
	"context"
	"errors"
	"strings"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/models"

	"gorm.io/gorm"
)

const (
	minNameLen     = 3
	minPasswordLen = 6
)

// Authenticate checks credentials. Every failure looks the same to the caller.
func (s *Service) Authenticate(ctx context.Context, name, password string) (access.Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return access.Identity{}, apperr.Validation("name and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Identity{}, apperr.Unauthorized("invalid name or password")
	}
	if err != nil {
		return access.Identity{}, apperr.Internal(err)
	}
	if !checkSecret(user.PasswordHash, password) {
		return access.Identity{}, apperr.Unauthorized("invalid name or password")
	}
	return access.FromUser(user), nil
}

// LoadIdentity reloads a user so role changes apply on the next request.
func (s *Service) LoadIdentity(ctx context.Context, userID uint) (access.Identity, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Identity{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return access.Identity{}, apperr.Internal(err)
	}
	return access.FromUser(user), nil
}

type NewUser struct {
	Name     string
	Password string
	Role     models.UserRole
}

// CreateUser provisions an account; only admins may call it.
func (s *Service) CreateUser(ctx context.Context, actor access.Identity, in NewUser) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only administrators can create users")
	}
	return s.createUser(ctx, in)
}

func (s *Service) createUser(ctx context.Context, in NewUser) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < minNameLen || len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("name must be at least 3 characters and password at least 6")
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: name, PasswordHash: hash, Role: role}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperr.FromDB(err, "User", "user name already taken")
	}
	s.log.Info("user created", "user_id", user.ID, "name", user.Name, "role", user.Role)
	return &user, nil
}

// ProvisionUser creates an account on behalf of an operator (CLI, seed).
func (s *Service) ProvisionUser(ctx context.Context, in NewUser) (*models.User, error) {
	return s.createUser(ctx, in)
}

// AssignRole changes the role of the named user on behalf of an operator.
func (s *Service) AssignRole(ctx context.Context, name string, role models.UserRole) error {
	if !role.Valid() {
		return apperr.Validation("unknown role")
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("name = ?", strings.TrimSpace(name)).
		Updates(map[string]interface{}{"role": role})
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	s.log.Info("user role assigned", "name", name, "role", role)
	return nil
}

func (s *Service) SetRole(ctx context.Context, actor access.Identity, userID uint, role models.UserRole) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only administrators can change roles")
	}
	if !role.Valid() {
		return apperr.Validation("unknown role")
	}
	return s.updateUser(ctx, userID, map[string]interface{}{"role": role})
}

// SetPassword: users change their own password, admins anyone's.
func (s *Service) SetPassword(ctx context.Context, actor access.Identity, userID uint, password string) error {
	if !actor.Valid() || (!actor.IsAdmin() && actor.UserID != userID) {
		return apperr.Forbidden("access denied")
	}
	if len(password) < minPasswordLen {
		return apperr.Validation("password must be at least 6 characters")
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.updateUser(ctx, userID, map[string]interface{}{"password_hash": hash})
}

func (s *Service) updateUser(ctx context.Context, userID uint, updates map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// EnsureAdmin creates the default administrator when no admin exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, name, password string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return apperr.Internal(err)
	}
	if count > 0 {
		// админ уже есть, ничего не делаем
		return nil
	}
	if _, err := s.createUser(ctx, NewUser{Name: name, Password: password, Role: models.RoleAdmin}); err != nil {
		return err
	}
	s.log.Info("created default admin user", "name", name)
	return nil
}
