// File: internal/service/authentication.go
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"admin-console/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	ErrInactiveUser       = errors.New("Inactive user")
	ErrMissingSecret      = errors.New("token secret not set")
)

var timeNow = time.Now

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID      int  `json:"uid"`
	IsSuperuser bool `json:"is_superuser"`
	jwt.RegisteredClaims
}

// AuthenticateUser 以 bcrypt 比對密碼，並拒絕停用中的帳號
func AuthenticateUser(user model.User, password string) error {
	if err := ComparePassword(user.HashedPassword, password); err != nil {
		return ErrInvalidCredentials
	}
	if !user.IsActive {
		return ErrInactiveUser
	}
	return nil
}

// Tokens 簽發與驗證存取令牌
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// Issue 依據使用者資訊產生 JWT
func (t *Tokens) Issue(user model.User) (string, error) {
	now := timeNow()
	claims := CustomClaims{
		UserID:      user.ID,
		IsSuperuser: user.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify 驗證並解析 JWT
func (t *Tokens) Verify(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
