package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"DakaHR/internal/model"
)

// UserRepository 员工账号存取接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByPublicID(ctx context.Context, publicID int64) (*model.User, error)
	GetByPublicIDs(ctx context.Context, publicIDs []int64) (map[int64]*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListActive(ctx context.Context) ([]*model.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPublicIDs 批量查询，返回 public_id 到用户的映射，用于列表展示字段投影
func (r *gormUserRepository) GetByPublicIDs(ctx context.Context, publicIDs []int64) (map[int64]*model.User, error) {
	if len(publicIDs) == 0 {
		return map[int64]*model.User{}, nil
	}

	var users []*model.User
	err := r.db.WithContext(ctx).Where("public_id IN ?", publicIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]*model.User, len(users))
	for _, u := range users {
		result[u.PublicID] = u
	}
	return result, nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormUserRepository) ListActive(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("first_name ASC, last_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
