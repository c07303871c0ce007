package users

import (
	"context"
	stderrors "errors"

	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository is the account store surface.
type Repository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up user by id")
	}
	return &user, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up user by username")
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "counting users")
	}
	return count, nil
}
