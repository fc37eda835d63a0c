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

// FormRepositoryInterface определяет методы репозитория форм.
type FormRepositoryInterface interface {
	SaveForm(ctx context.Context, form *model.Form) error
	GetFormByID(ctx context.Context, id string) (*model.Form, error)
	GetFormByCustomLink(ctx context.Context, link string) (*model.Form, error)
	GetFormByURLID(ctx context.Context, urlID string) (*model.Form, error)
	GetFormsByOwner(ctx context.Context, owner string) ([]*model.Form, error)
	GetExpiredFormsByOwner(ctx context.Context, owner string, now time.Time) ([]*model.Form, error)
	IsCustomLinkTaken(ctx context.Context, link, excludeID string) (bool, error)
	UpdateFormOwned(ctx context.Context, form *model.Form) (*model.Form, error)
	DeleteFormOwned(ctx context.Context, id, owner string) error
	ExpireFormOwned(ctx context.Context, id, owner string, now time.Time) (*model.Form, error)
	SetPublishedOwned(ctx context.Context, id, owner string, published bool, now time.Time) (*model.Form, error)
	Ping(ctx context.Context) error
}

// FormRepository реализует FormRepositoryInterface с использованием PostgreSQL.
type FormRepository struct {
	DB database.DBInterface
}

// NewFormRepository создаёт новый экземпляр FormRepository.
func NewFormRepository(db database.DBInterface) *FormRepository {
	return &FormRepository{DB: db}
}

const formColumns = `id::text, title, description, sections, owner::text, is_editable,
	allow_deletion, require_account, published, custom_link, url_id,
	expiry_date, last_edited_at, created_at, updated_at`

func scanForm(row pgx.Row) (*model.Form, error) {
	form := &model.Form{}
	var customLink *string
	err := row.Scan(
		&form.ID, &form.Title, &form.Description, &form.Sections, &form.Owner,
		&form.IsEditable, &form.AllowDeletion, &form.RequireAccount, &form.Published,
		&customLink, &form.URLID, &form.ExpiryDate, &form.LastEditedAt,
		&form.CreatedAt, &form.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customLink != nil {
		form.CustomLink = *customLink
	}
	return form, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SaveForm сохраняет форму в базу данных.
// Конфликт по custom_link или url_id отображается в apperr.ErrConflict.
func (r *FormRepository) SaveForm(ctx context.Context, form *model.Form) error {
	query := `INSERT INTO forms
	          (id, title, description, sections, owner, is_editable, allow_deletion,
	           require_account, published, custom_link, url_id, expiry_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`

	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now
	_, err := r.DB.(*database.DB).Pool.Exec(ctx, query,
		form.ID, form.Title, form.Description, form.Sections, form.Owner,
		form.IsEditable, form.AllowDeletion, form.RequireAccount, form.Published,
		nullable(form.CustomLink), form.URLID, form.ExpiryDate, now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.ErrConflict
		}
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetFormByID извлекает форму по идентификатору.
func (r *FormRepository) GetFormByID(ctx context.Context, id string) (*model.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE id::text = $1`
	form, err := scanForm(r.DB.(*database.DB).Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return form, nil
}

// GetFormByCustomLink извлекает форму по пользовательской ссылке.
func (r *FormRepository) GetFormByCustomLink(ctx context.Context, link string) (*model.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE custom_link = $1`
	form, err := scanForm(r.DB.(*database.DB).Pool.QueryRow(ctx, query, link))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return form, nil
}

// GetFormByURLID извлекает форму по сгенерированному публичному идентификатору.
func (r *FormRepository) GetFormByURLID(ctx context.Context, urlID string) (*model.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE url_id = $1`
	form, err := scanForm(r.DB.(*database.DB).Pool.QueryRow(ctx, query, urlID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return form, nil
}

func (r *FormRepository) queryForms(ctx context.Context, query string, args ...any) ([]*model.Form, error) {
	rows, err := r.DB.(*database.DB).Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query forms: %w", err)
	}
	defer rows.Close()

	var results []*model.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, form)
	}
	return results, rows.Err()
}

// GetFormsByOwner возвращает все формы пользователя.
func (r *FormRepository) GetFormsByOwner(ctx context.Context, owner string) ([]*model.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms WHERE owner::text = $1 ORDER BY created_at DESC`
	return r.queryForms(ctx, query, owner)
}

// GetExpiredFormsByOwner возвращает формы пользователя с истёкшим сроком.
func (r *FormRepository) GetExpiredFormsByOwner(ctx context.Context, owner string, now time.Time) ([]*model.Form, error) {
	query := `SELECT ` + formColumns + ` FROM forms
	          WHERE owner::text = $1 AND expiry_date IS NOT NULL AND expiry_date < $2
	          ORDER BY expiry_date DESC`
	return r.queryForms(ctx, query, owner, now)
}

// IsCustomLinkTaken проверяет, занята ли пользовательская ссылка другой формой.
// Проверка носит UX-характер: реальная гарантия — уникальный индекс в БД.
func (r *FormRepository) IsCustomLinkTaken(ctx context.Context, link, excludeID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM forms WHERE custom_link = $1 AND id::text <> $2`
	err := r.DB.(*database.DB).Pool.QueryRow(ctx, query, link, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("database query error: %w", err)
	}
	return count > 0, nil
}

// UpdateFormOwned обновляет форму по совмещённому фильтру id+owner.
// Отсутствие совпадения неотличимо от отсутствия формы.
func (r *FormRepository) UpdateFormOwned(ctx context.Context, form *model.Form) (*model.Form, error) {
	query := `UPDATE forms SET
	            title = $3, description = $4, sections = $5, is_editable = $6,
	            allow_deletion = $7, require_account = $8, custom_link = $9,
	            expiry_date = $10, last_edited_at = $11, updated_at = $11
	          WHERE id::text = $1 AND owner::text = $2
	          RETURNING ` + formColumns

	now := time.Now()
	updated, err := scanForm(r.DB.(*database.DB).Pool.QueryRow(ctx, query,
		form.ID, form.Owner, form.Title, form.Description, form.Sections,
		form.IsEditable, form.AllowDeletion, form.RequireAccount,
		nullable(form.CustomLink), form.ExpiryDate, now,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.ErrConflict
		}
		return nil, fmt.Errorf("database update error: %w", err)
	}
	return updated, nil
}

// DeleteFormOwned жёстко удаляет форму по фильтру id+owner.
func (r *FormRepository) DeleteFormOwned(ctx context.Context, id, owner string) error {
	tag, err := r.DB.(*database.DB).Pool.Exec(ctx,
		`DELETE FROM forms WHERE id::text = $1 AND owner::text = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ExpireFormOwned немедленно истекает форму: expiry_date = now, published = false.
func (r *FormRepository) ExpireFormOwned(ctx context.Context, id, owner string, now time.Time) (*model.Form, error) {
	query := `UPDATE forms SET expiry_date = $3, published = FALSE, updated_at = $3
	          WHERE id::text = $1 AND owner::text = $2
	          RETURNING ` + formColumns

	form, err := scanForm(r.DB.(*database.DB).Pool.QueryRow(ctx, query, id, owner, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database update error: %w", err)
	}
	return form, nil
}

// SetPublishedOwned публикует или снимает с публикации форму.
// Публикация сбрасывает expiry_date, снятие — выставляет его в now.
func (r *FormRepository) SetPublishedOwned(ctx context.Context, id, owner string, published bool, now time.Time) (*model.Form, error) {
	var expiry *time.Time
	if !published {
		expiry = &now
	}
	query := `UPDATE forms SET published = $3, expiry_date = $4, updated_at = $5
	          WHERE id::text = $1 AND owner::text = $2
	          RETURNING ` + formColumns

	form, err := scanForm(r.DB.(*database.DB).Pool.QueryRow(ctx, query, id, owner, published, expiry, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database update error: %w", err)
	}
	return form, nil
}

// Ping проверяет доступность базы данных.
func (r *FormRepository) Ping(ctx context.Context) error {
	_, err := r.DB.(*database.DB).Pool.Exec(ctx, "SELECT 1")
	return err
}
