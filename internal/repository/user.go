package repository

import (
	"context"

	"agora/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the user and OAuth account data operations.
type UserRepository interface {
	// FindByID returns nil without error when the user does not exist.
	FindByID(ctx context.Context, id uint) (*models.User, error)
	// UpsertOAuthUser links account to a user, creating the user on first sign-in
	// and refreshing the profile and token fields on later ones.
	UpsertOAuthUser(ctx context.Context, account models.Account, profile models.User) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return foundOrNil(&user, err)
}

func (r *userRepository) UpsertOAuthUser(ctx context.Context, account models.Account, profile models.User) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Account
		err := tx.Where("provider = ? AND provider_account_id = ?", account.Provider, account.ProviderAccountID).
			First(&existing).Error
		found, err := foundOrNil(&existing, err)
		if err != nil {
			return err
		}

		if found == nil {
			user = profile
			user.ID = 0
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			account.ID = 0
			account.UserID = user.ID
			return tx.Create(&account).Error
		}

		if err := tx.First(&user, found.UserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(map[string]any{
			"name":  profile.Name,
			"image": profile.Image,
		}).Error; err != nil {
			return err
		}
		user.Name, user.Image = profile.Name, profile.Image
		return tx.Model(found).Updates(map[string]any{
			"access_token": account.AccessToken,
			"token_type":   account.TokenType,
			"scope":        account.Scope,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
