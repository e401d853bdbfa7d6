package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/repository"
	"DakaHR/pkg/errors"
	"DakaHR/storage/database"
)

// UserService 员工资料与花名册查询
type UserService struct {
	users repository.UserRepository
}

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = &UserService{
			users: repository.NewUserRepository(database.DB()),
		}
	})
	return userService
}

// Profile 查询员工资料
func (s *UserService) Profile(ctx context.Context, userID int64) (*dto.UserProfileData, error) {
	user, err := s.users.GetByPublicID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if user == nil {
		return nil, errors.UserNotFound
	}

	return profileData(user), nil
}

// Roster 在职员工花名册，手工录入表单选择员工用
func (s *UserService) Roster(ctx context.Context) ([]*dto.RosterEntry, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entries := make([]*dto.RosterEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, &dto.RosterEntry{
			ID:       strconv.FormatInt(u.PublicID, 10),
			FullName: u.FullName(),
			Email:    u.Email,
			Initials: u.Initials(),
			Role:     string(u.Role),
		})
	}
	return entries, nil
}

func profileData(user *model.User) *dto.UserProfileData {
	caps := user.Role.Capabilities()
	capStrs := make([]string, 0, len(caps))
	for _, c := range caps {
		capStrs = append(capStrs, string(c))
	}

	return &dto.UserProfileData{
		ID:       strconv.FormatInt(user.PublicID, 10),
		Email:    user.Email,
		FullName: user.FullName(),
		Initials: user.Initials(),
		Phone:    user.Phone,
		Role:     string(user.Role),
		Active:   user.Active,
		Caps:     capStrs,
	}
}
