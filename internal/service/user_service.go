package service

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/permissions"
	"inkwell/internal/repository"
	"inkwell/internal/security"
	"inkwell/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
	FirstName   string
	LastName    string
}

// UpdateUserInput carries a PUT or PATCH. Nil fields were not supplied.
type UpdateUserInput struct {
	Requester   *models.User
	UserID      uint
	Method      string
	Username    *string
	Email       *string
	PhoneNumber *string
	Password    *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates and stores a new non-administrative account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if in.Username == "" || in.Email == "" || in.Password == "" || in.PhoneNumber == "" {
		return nil, models.NewValidationError("username, email, password and phone_number are required")
	}
	if err := validateAccountFields(in.Username, in.Email, in.PhoneNumber); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensureUnique(ctx, 0, in.Username, in.Email, in.PhoneNumber); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    hash,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UserForWrite loads the account and checks that requester may apply method
// to it. A missing account is reported before a permission failure.
func (s *UserService) UserForWrite(ctx context.Context, requester *models.User, id uint, method string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !permissions.UserOwner(method, requester, user) {
		return nil, models.NewForbiddenError("You do not have permission to perform this action.")
	}
	return user, nil
}

// UpdateUser applies a PUT or PATCH to the requester's own account.
func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.UserForWrite(ctx, in.Requester, in.UserID, in.Method)
	if err != nil {
		return nil, err
	}

	if in.Method == http.MethodPut && (in.Username == nil || in.Email == nil || in.PhoneNumber == nil) {
		return nil, models.NewValidationError("username, email and phone_number are required")
	}

	username, email, phone := user.Username, user.Email, user.PhoneNumber
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
	}
	if in.PhoneNumber != nil {
		phone = strings.TrimSpace(*in.PhoneNumber)
	}
	if err := validateAccountFields(username, email, phone); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, user.ID, username, email, phone); err != nil {
		return nil, err
	}

	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = hash
	}

	user.Username, user.Email, user.PhoneNumber = username, email, phone
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the requester's own account.
func (s *UserService) DeleteUser(ctx context.Context, requester *models.User, id uint) error {
	user, err := s.UserForWrite(ctx, requester, id, http.MethodDelete)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID)
}

// SetAdmin grants or revokes staff and superuser flags together.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsStaff = isAdmin
	user.IsSuperuser = isAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive enables or disables login for the account.
func (s *UserService) SetActive(ctx context.Context, targetID uint, active bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateAccountFields(username, email, phone string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePhoneNumber(phone); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// ensureUnique rejects values already held by an account other than selfID.
func (s *UserService) ensureUnique(ctx context.Context, selfID uint, username, email, phone string) error {
	checks := []struct {
		column string
		lookup func(context.Context, string) (*models.User, error)
		value  string
	}{
		{"email", s.userRepo.GetByEmail, email},
		{"username", s.userRepo.GetByUsername, username},
		{"phone_number", s.userRepo.GetByPhoneNumber, phone},
	}
	for _, c := range checks {
		existing, err := c.lookup(ctx, c.value)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return repository.DuplicateUserError(c.column)
		}
	}
	return nil
}
