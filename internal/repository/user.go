// File: internal/repository/user.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"admin-console/internal/database"
	"admin-console/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var userColumns = []string{"id", "email", "full_name", "hashed_password", "is_active", "is_superuser", "created_at"}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FullName,
		&u.HashedPassword,
		&u.IsActive,
		&u.IsSuperuser,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func getUserBy(ctx context.Context, db database.DB, op, where string, arg any) (*model.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where, arg).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, err := scanUser(db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	return getUserBy(ctx, db, "GetUserByID", "id = ?", userID)
}

// GetUserByEmail 以不分大小寫的 email 查詢
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	return getUserBy(ctx, db, "GetUserByEmail", "LOWER(email) = LOWER(?)", email)
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	query, args, err := psql.Insert("users").
		Columns("email", "full_name", "hashed_password", "is_active", "is_superuser").
		Values(u.Email, u.FullName, u.HashedPassword, u.IsActive, u.IsSuperuser).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	if err := db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("CreateUser: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// ListUsers 依 id 排序分頁，並回傳總筆數
func ListUsers(ctx context.Context, db database.DB, skip, limit int) ([]model.User, int, error) {
	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}

	query, args, err := psql.Select(userColumns...).From("users").
		OrderBy("id").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	return users, count, nil
}
