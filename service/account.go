package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tuanvudang/equip-data-service/entity"
	"github.com/tuanvudang/equip-data-service/repository"
	"github.com/tuanvudang/equip-data-service/utils"
)

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password, email string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, storageFailure(err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: password cannot be hashed", ErrInvalidInput)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storageFailure(err)
	}

	s.logger.InfoWithContextf(ctx, "[Account] registered user %s", user.Username)

	return user, nil
}

// Login verifies credentials and issues a signed access token. Unknown user
// and wrong password answer identically.
func (s *Service) Login(ctx context.Context, username, password string) (string, *entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrInvalidInput)
		}
		return "", nil, storageFailure(err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrInvalidInput)
	}

	token, err := utils.GenerateToken(user.ID, s.cfg)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, user, nil
}
