package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admin-console/internal/database"
	"admin-console/internal/model"
	"admin-console/internal/repository"
	"admin-console/internal/service"

	"go.uber.org/zap"
)

var (
	getUserByEmail = repository.GetUserByEmail
	createUser     = repository.CreateUser
	hashPassword   = service.HashPassword
)

// ensureSuperuser 建立第一個 superuser，否則沒有人能登入 console
func ensureSuperuser(ctx context.Context, db database.DB, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		return nil
	}
	email = strings.ToLower(email)
	_, err := getUserByEmail(ctx, db, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("ensureSuperuser: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("ensureSuperuser: %w", err)
	}
	u, err := createUser(ctx, db, &model.User{
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
		IsSuperuser:    true,
	})
	// 多個實例同時啟動
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ensureSuperuser: %w", err)
	}
	log.Info("first superuser created", zap.Int("user_id", u.ID))
	return nil
}
