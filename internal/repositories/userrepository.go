package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/database"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepositoryInterface определяет методы репозитория пользователей.
type UserRepositoryInterface interface {
	SaveUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// UserRepository реализует UserRepositoryInterface с использованием PostgreSQL.
type UserRepository struct {
	DB database.DBInterface
}

// NewUserRepository создаёт новый экземпляр UserRepository.
func NewUserRepository(db database.DBInterface) *UserRepository {
	return &UserRepository{DB: db}
}

// SaveUser сохраняет пользователя. Повторный email отображается в apperr.ErrConflict.
func (r *UserRepository) SaveUser(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	user.CreatedAt = time.Now()
	_, err := r.DB.(*database.DB).Pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.ErrConflict
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetUserByEmail извлекает пользователя по email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id::text, username, email, password_hash, created_at FROM users WHERE email = $1`
	err := r.DB.(*database.DB).Pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}

// GetUserByID извлекает пользователя по идентификатору.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id::text, username, email, password_hash, created_at FROM users WHERE id::text = $1`
	err := r.DB.(*database.DB).Pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return user, nil
}
