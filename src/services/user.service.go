package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Akas679/Inventory-web/src/models"
	"github.com/Akas679/Inventory-web/src/repositories"
)

// ============ REQUEST STRUCTS ============
type UserCreateRequest struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// ============ USER SERVICE ============
// UserService manages the audit attribution records. Authentication is not
// this service's concern.
type UserService struct {
	DB     *gorm.DB
	Users  *repositories.UserRepository
	Ledger *repositories.LedgerRepository
	Logger *zap.Logger
}

// CreateUser
func (s *UserService) CreateUser(req UserCreateRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "is required"}
	}

	user := &models.User{
		Username:  username,
		Email:     strings.TrimSpace(req.Email),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	s.Logger.Info("user created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// GetUser
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.Users.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers
func (s *UserService) ListUsers() ([]models.User, error) {
	return s.Users.List()
}

// DeleteUser removes a user only when the ledger holds no transactions
// attributed to them; attribution must stay resolvable for the full history.
func (s *UserService) DeleteUser(id uint) error {
	user, err := s.Users.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	count, err := s.Ledger.UserTransactionCount(user.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &IntegrityError{Entity: "user", ID: user.ID, Rows: count, Dependent: "stock transaction(s)"}
	}
	return s.Users.Delete(user.ID)
}
