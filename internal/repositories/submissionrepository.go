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
)

// SubmissionRepositoryInterface определяет методы репозитория отправок.
type SubmissionRepositoryInterface interface {
	SaveSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	GetSubmissionsByForm(ctx context.Context, formID string) ([]*model.Submission, error)
	GetSubmissionsByUser(ctx context.Context, userID string) ([]*model.SubmissionWithForm, error)
	UpdateSubmissionResponses(ctx context.Context, id string, responses map[string]any) error
	DeleteSubmission(ctx context.Context, id string) error
}

// SubmissionRepository реализует SubmissionRepositoryInterface с использованием PostgreSQL.
type SubmissionRepository struct {
	DB database.DBInterface
}

// NewSubmissionRepository создаёт новый экземпляр SubmissionRepository.
func NewSubmissionRepository(db database.DBInterface) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

const submissionColumns = `id::text, form_id::text, form_title, responses, field_labels,
	submitted_by::text, created_at, updated_at`

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	sub := &model.Submission{}
	var submittedBy *string
	err := row.Scan(
		&sub.ID, &sub.FormID, &sub.FormTitle, &sub.Responses, &sub.FieldLabels,
		&submittedBy, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if submittedBy != nil {
		sub.SubmittedBy = *submittedBy
	}
	return sub, nil
}

// SaveSubmission сохраняет отправку в базу данных.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions
	          (id, form_id, form_title, responses, field_labels, submitted_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	_, err := r.DB.(*database.DB).Pool.Exec(ctx, query,
		sub.ID, sub.FormID, sub.FormTitle, sub.Responses, sub.FieldLabels,
		nullable(sub.SubmittedBy), now,
	)
	if err != nil {
		return fmt.Errorf("database insert error: %w", err)
	}
	return nil
}

// GetSubmissionByID извлекает отправку по идентификатору.
func (r *SubmissionRepository) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id::text = $1`
	sub, err := scanSubmission(r.DB.(*database.DB).Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return sub, nil
}

// GetSubmissionsByForm возвращает отправки формы от новых к старым.
func (r *SubmissionRepository) GetSubmissionsByForm(ctx context.Context, formID string) ([]*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions
	          WHERE form_id::text = $1 ORDER BY created_at DESC`
	rows, err := r.DB.(*database.DB).Pool.Query(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var results []*model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, sub)
	}
	return results, rows.Err()
}

// GetSubmissionsByUser возвращает отправки пользователя от новых к старым,
// дополняя каждую ограниченным срезом полей формы (если форма ещё существует).
func (r *SubmissionRepository) GetSubmissionsByUser(ctx context.Context, userID string) ([]*model.SubmissionWithForm, error) {
	query := `SELECT s.id::text, s.form_id::text, s.form_title, s.responses, s.field_labels,
	                 s.submitted_by::text, s.created_at, s.updated_at,
	                 f.title, f.is_editable, f.allow_deletion
	          FROM submissions s
	          LEFT JOIN forms f ON f.id = s.form_id
	          WHERE s.submitted_by::text = $1
	          ORDER BY s.created_at DESC`
	rows, err := r.DB.(*database.DB).Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var results []*model.SubmissionWithForm
	for rows.Next() {
		item := &model.SubmissionWithForm{}
		var submittedBy, formTitle *string
		var isEditable, allowDeletion *bool
		err := rows.Scan(
			&item.ID, &item.FormID, &item.FormTitle, &item.Responses, &item.FieldLabels,
			&submittedBy, &item.CreatedAt, &item.UpdatedAt,
			&formTitle, &isEditable, &allowDeletion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if submittedBy != nil {
			item.SubmittedBy = *submittedBy
		}
		if formTitle != nil {
			item.Form = &model.SubmissionFormInfo{
				Title:         *formTitle,
				IsEditable:    *isEditable,
				AllowDeletion: *allowDeletion,
			}
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

// UpdateSubmissionResponses целиком заменяет карту ответов отправки.
func (r *SubmissionRepository) UpdateSubmissionResponses(ctx context.Context, id string, responses map[string]any) error {
	tag, err := r.DB.(*database.DB).Pool.Exec(ctx,
		`UPDATE submissions SET responses = $2, updated_at = $3 WHERE id::text = $1`,
		id, responses, time.Now())
	if err != nil {
		return fmt.Errorf("database update error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteSubmission жёстко удаляет отправку.
func (r *SubmissionRepository) DeleteSubmission(ctx context.Context, id string) error {
	tag, err := r.DB.(*database.DB).Pool.Exec(ctx,
		`DELETE FROM submissions WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("database delete error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
