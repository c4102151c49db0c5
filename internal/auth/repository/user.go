package repository

import (
	"context"
	"errors"

	"github.com/edvora/edvora-api/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound normalizes gorm.ErrRecordNotFound so callers do not import
// gorm.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	FindByProviderID(ctx context.Context, provider model.Provider, subjectID string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	LinkProvider(ctx context.Context, userID int64, provider model.Provider, subjectID string) error
	UpdateLoginTime(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateNames(ctx context.Context, userID int64, firstName, lastName *string) error
	GetProfile(ctx context.Context, userID int64) (*model.Profile, error)
	UpsertProfile(ctx context.Context, profile *model.Profile) error
	InsertLoginLog(ctx context.Context, entry *model.LoginLog) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByProviderID(ctx context.Context, provider model.Provider, subjectID string) (*model.User, error) {
	var user model.User
	column := "google_id"
	if provider == model.ProviderFacebook {
		column = "facebook_id"
	}
	if err := r.db.WithContext(ctx).Where(column+" = ?", subjectID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) LinkProvider(ctx context.Context, userID int64, provider model.Provider, subjectID string) error {
	column := "google_id"
	if provider == model.ProviderFacebook {
		column = "facebook_id"
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update(column, subjectID).Error
}

func (r *userRepository) UpdateLoginTime(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login_at", r.db.NowFunc()).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *userRepository) UpdateNames(ctx context.Context, userID int64, firstName, lastName *string) error {
	updates := map[string]any{}
	if firstName != nil {
		updates["first_name"] = *firstName
	}
	if lastName != nil {
		updates["last_name"] = *lastName
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *userRepository) GetProfile(ctx context.Context, userID int64) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *userRepository) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	var existing model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", profile.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(profile).Error
	}
	if err != nil {
		return err
	}
	profile.ID = existing.ID
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *userRepository) InsertLoginLog(ctx context.Context, entry *model.LoginLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
