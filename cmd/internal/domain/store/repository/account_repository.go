package repository

import (
	"context"
	"errors"
	"gatherbeat/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultAccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *DefaultAccountRepository {
	return &DefaultAccountRepository{db: db}
}

// FindByKeyOrEmail looks an account up by its normalized key, falling back to
// the email address. Returns nil, nil when neither matches.
func (r *DefaultAccountRepository) FindByKeyOrEmail(ctx context.Context, key, email string) (*entity.Account, error) {
	account, err := r.FindByID(ctx, key)
	if err != nil || account != nil || email == "" {
		return account, err
	}
	return r.FindByEmail(ctx, email)
}

func (r *DefaultAccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *DefaultAccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *DefaultAccountRepository) Save(ctx context.Context, account *entity.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
