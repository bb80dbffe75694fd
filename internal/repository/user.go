package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const usersTable = "users"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// DuplicateUserError maps a unique column to the message clients see.
func DuplicateUserError(column string) *models.AppError {
	switch column {
	case "username":
		return models.NewValidationError("A user with that username already exists.")
	case "email":
		return models.NewValidationError("A user with that email already exists.")
	case "phone_number":
		return models.NewValidationError("A user with that phone number already exists.")
	default:
		return models.NewValidationError("User already exists")
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, end := instrument(ctx, usersTable, "GetByID")
	defer end(&err)

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &u, nil
}

// findOne returns nil, nil when no row matches.
func (r *userRepository) findOne(ctx context.Context, method, column, value string) (user *models.User, err error) {
	ctx, end := instrument(ctx, usersTable, method)
	defer end(&err)

	var u models.User
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "GetByEmail", "email", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "GetByUsername", "username", username)
}

func (r *userRepository) GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, "GetByPhoneNumber", "phone_number", phone)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, end := instrument(ctx, usersTable, "Create")
	defer end(&err)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if column, ok := uniqueViolation(err); ok {
			return DuplicateUserError(column)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) (err error) {
	ctx, end := instrument(ctx, usersTable, "Update")
	defer end(&err)

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if column, ok := uniqueViolation(err); ok {
			return DuplicateUserError(column)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the user row and detaches their posts in one transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, end := instrument(ctx, usersTable, "Delete")
	defer end(&err)

	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.BlogPost{}).
			Where("author_id = ?", id).
			Update("author_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if txErr != nil {
		return notFoundOr(txErr, "User", id)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) (users []models.User, err error) {
	ctx, end := instrument(ctx, usersTable, "List")
	defer end(&err)

	q := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) (err error) {
	ctx, end := instrument(ctx, usersTable, "TouchLastLogin")
	defer end(&err)

	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
