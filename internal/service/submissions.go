package service

import (
	"context"
	"errors"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/flexiforms/FlexiForms/internal/policy"
	"github.com/flexiforms/FlexiForms/internal/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionRepo определяет контракт хранилища отправок.
type SubmissionRepo interface {
	SaveSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	GetSubmissionsByForm(ctx context.Context, formID string) ([]*model.Submission, error)
	GetSubmissionsByUser(ctx context.Context, userID string) ([]*model.SubmissionWithForm, error)
	UpdateSubmissionResponses(ctx context.Context, id string, responses map[string]any) error
	DeleteSubmission(ctx context.Context, id string) error
}

// SubmissionService управляет жизненным циклом отправки:
// absent → created → updated* → deleted, без иных переходов.
type SubmissionService struct {
	Repo   SubmissionRepo
	Forms  FormRepo
	Logger *zap.Logger
}

// NewSubmissionService создаёт новый SubmissionService.
func NewSubmissionService(repo SubmissionRepo, forms FormRepo, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{Repo: repo, Forms: forms, Logger: logger}
}

// Submit создаёт отправку: политика доступа, затем фильтрация ответов
// по полям формы. Пустая отфильтрованная карта допустима — минимального
// числа полей здесь нет. Заголовок формы и подписи полей денормализуются.
func (s *SubmissionService) Submit(ctx context.Context, formID, requester string, raw map[string]any, files []validator.UploadedFile) (*model.Submission, error) {
	form, err := s.Forms.GetFormByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanSubmit(form, requester, time.Now()); err != nil {
		return nil, err
	}

	responses, labels := validator.Validate(form, raw, files)

	sub := &model.Submission{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		FormTitle:   form.Title,
		Responses:   responses,
		FieldLabels: labels,
		SubmittedBy: requester,
	}

	if err := s.Repo.SaveSubmission(ctx, sub); err != nil {
		s.Logger.Error("Не удалось сохранить отправку", zap.Error(err))
		return nil, err
	}
	s.Logger.Info("Отправка сохранена",
		zap.String("submission", sub.ID),
		zap.String("form", form.ID),
		zap.Int("fields", len(responses)),
	)
	return sub, nil
}

// ListForForm возвращает отправки формы. Форма должна существовать;
// проверки владения здесь нет — достаточно аутентификации на уровне маршрута.
func (s *SubmissionService) ListForForm(ctx context.Context, formID string) ([]*model.Submission, error) {
	if _, err := s.Forms.GetFormByID(ctx, formID); err != nil {
		return nil, err
	}
	return s.Repo.GetSubmissionsByForm(ctx, formID)
}

// ListForUser возвращает отправки пользователя с ограниченными полями формы.
func (s *SubmissionService) ListForUser(ctx context.Context, userID string) ([]*model.SubmissionWithForm, error) {
	return s.Repo.GetSubmissionsByUser(ctx, userID)
}

// формы может уже не быть — тогда вместо неё nil
func (s *SubmissionService) formOf(ctx context.Context, sub *model.Submission) (*model.Form, error) {
	form, err := s.Forms.GetFormByID(ctx, sub.FormID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return form, nil
}

// Get возвращает отправку владельцу формы либо её автору.
func (s *SubmissionService) Get(ctx context.Context, id, requester string) (*model.Submission, error) {
	sub, err := s.Repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err := s.formOf(ctx, sub)
	if err != nil {
		return nil, err
	}
	if err := policy.CanReadSubmission(form, sub, requester); err != nil {
		return nil, err
	}
	return sub, nil
}

// Update заменяет карту ответов целиком, без повторной сверки с полями
// формы. Разрешено только автору и только для редактируемых форм.
func (s *SubmissionService) Update(ctx context.Context, id, requester string, responses map[string]any) (*model.Submission, error) {
	sub, err := s.Repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	form, err := s.formOf(ctx, sub)
	if err != nil {
		return nil, err
	}
	if err := policy.CanUpdateSubmission(form, sub, requester); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateSubmissionResponses(ctx, id, responses); err != nil {
		return nil, err
	}
	sub.Responses = responses
	s.Logger.Info("Отправка обновлена", zap.String("submission", id))
	return sub, nil
}

// Delete удаляет отправку. Разрешено только автору; если форма ещё
// существует, она должна допускать удаление. Удаление терминально.
func (s *SubmissionService) Delete(ctx context.Context, id, requester string) error {
	sub, err := s.Repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return err
	}
	form, err := s.formOf(ctx, sub)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteSubmission(form, sub, requester); err != nil {
		return err
	}
	if err := s.Repo.DeleteSubmission(ctx, id); err != nil {
		return err
	}
	s.Logger.Info("Отправка удалена", zap.String("submission", id))
	return nil
}
