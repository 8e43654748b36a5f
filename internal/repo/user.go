package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.insert(ctx, u)
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Scopes(Live.Scope, Equal("username", username)).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserExists checks username and email across every user, deleted ones
// included, since both columns are unique at the storage level.
func (r *GormRepo) UserExists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateToken(ctx context.Context, t *models.UserToken) error {
	t.CreatedAt = r.now()
	return r.DB.WithContext(ctx).Create(t).Error
}

// GetToken looks a token up by exact id and loads its live owner. A token
// whose owner is deleted comes back with a nil User.
func (r *GormRepo) GetToken(ctx context.Context, raw string) (*models.UserToken, error) {
	var t models.UserToken
	err := r.DB.WithContext(ctx).
		Preload("User", Live.Scope).
		Where(clause.Eq{Column: idColumn(), Value: raw}).
		Take(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

