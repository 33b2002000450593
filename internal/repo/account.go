package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/workout_tracker/internal/models"
)

func (r *GormRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GormRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetRefreshToken overwrites the stored digest unconditionally. Used on login.
func (r *GormRepo) SetRefreshToken(ctx context.Context, id uuid.UUID, digest string, exp time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"refresh_token":        digest,
			"refresh_token_expiry": exp,
		}).Error
}

// RotateRefreshToken swaps oldDigest for newDigest only while oldDigest is still
// the live token. It reports false when another caller rotated first or the
// token expired.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldDigest, newDigest string, newExp, now time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND refresh_token = ? AND refresh_token_expiry > ?", id, oldDigest, now).
		Updates(map[string]any{
			"refresh_token":        newDigest,
			"refresh_token_expiry": newExp,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
