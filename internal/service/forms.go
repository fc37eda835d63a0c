package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FormRepo определяет контракт хранилища форм, который нужен сервису.
type FormRepo interface {
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

// FormService инкапсулирует операции над формами.
type FormService struct {
	Repo   FormRepo
	Logger *zap.Logger
}

// NewFormService создаёт новый FormService.
func NewFormService(repo FormRepo, logger *zap.Logger) *FormService {
	return &FormService{Repo: repo, Logger: logger}
}

func parseExpiry(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, apperr.NewValidation("invalid expiry date")
	}
	return &t, nil
}

// ensureIDs выдаёт идентификаторы секциям и полям, у которых их ещё нет.
func ensureIDs(sections []model.Section) {
	for i := range sections {
		if sections[i].ID == "" {
			sections[i].ID = uuid.NewString()
		}
		for j := range sections[i].Fields {
			if sections[i].Fields[j].ID == "" {
				sections[i].Fields[j].ID = uuid.NewString()
			}
		}
	}
}

// CreateForm создаёт форму от имени владельца.
// urlId генерируется всегда; пользовательская ссылка берётся только
// непустой после обрезки пробелов и проверяется на занятость
// (окончательная гарантия — уникальный индекс хранилища).
func (s *FormService) CreateForm(ctx context.Context, owner string, req model.FormRequest) (*model.Form, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperr.NewValidation("title is required")
	}

	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	ensureIDs(req.Sections)

	form := &model.Form{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		Sections:       req.Sections,
		Owner:          owner,
		IsEditable:     req.IsEditable,
		AllowDeletion:  req.AllowDeletion,
		RequireAccount: req.RequireAccount,
		Published:      true,
		URLID:          uuid.NewString(),
		ExpiryDate:     expiry,
	}

	if link := strings.TrimSpace(req.CustomLink); link != "" {
		taken, err := s.Repo.IsCustomLinkTaken(ctx, link, form.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check custom link: %w", err)
		}
		if taken {
			return nil, apperr.ErrConflict
		}
		form.CustomLink = link
	}

	if err := s.Repo.SaveForm(ctx, form); err != nil {
		return nil, err
	}
	s.Logger.Info("Форма создана", zap.String("id", form.ID), zap.String("owner", owner))
	return form, nil
}

// GetForm возвращает форму по id либо по пользовательской ссылке
// с вычисленным признаком истечения. Истёкшие формы здесь не прячутся.
func (s *FormService) GetForm(ctx context.Context, idOrLink string) (*model.FormWithExpired, error) {
	var form *model.Form
	var err error
	if _, parseErr := uuid.Parse(idOrLink); parseErr == nil {
		form, err = s.Repo.GetFormByID(ctx, idOrLink)
	} else {
		form, err = s.Repo.GetFormByCustomLink(ctx, idOrLink)
	}
	if err != nil {
		return nil, err
	}
	return &model.FormWithExpired{Form: *form, Expired: form.IsExpired(time.Now())}, nil
}

// GetSharedForm резолвит публичный идентификатор формы.
// Порядок разрешения — контракт: сначала точное совпадение custom link,
// затем urlId, затем сырой id. Владелец из ответа вычищается,
// истёкшая форма по этому пути не отдаётся.
func (s *FormService) GetSharedForm(ctx context.Context, identifier string) (*model.Form, error) {
	// К следующему способу разрешения переходим только при ErrNotFound:
	// сбой хранилища не должен маскироваться под отсутствие формы.
	form, err := s.Repo.GetFormByCustomLink(ctx, identifier)
	if errors.Is(err, apperr.ErrNotFound) {
		form, err = s.Repo.GetFormByURLID(ctx, identifier)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		if _, parseErr := uuid.Parse(identifier); parseErr != nil {
			return nil, apperr.ErrNotFound
		}
		form, err = s.Repo.GetFormByID(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	if form.IsExpired(time.Now()) {
		return nil, apperr.ErrExpired
	}

	form.Owner = ""
	return form, nil
}

// ListForms возвращает формы владельца.
func (s *FormService) ListForms(ctx context.Context, owner string) ([]*model.Form, error) {
	return s.Repo.GetFormsByOwner(ctx, owner)
}

// ListExpiredForms возвращает истёкшие формы владельца.
func (s *FormService) ListExpiredForms(ctx context.Context, owner string) ([]*model.Form, error) {
	return s.Repo.GetExpiredFormsByOwner(ctx, owner, time.Now())
}

// UpdateForm обновляет форму владельца. Фильтр id+owner совмещён:
// чужая форма выглядит как отсутствующая.
func (s *FormService) UpdateForm(ctx context.Context, id, owner string, req model.FormRequest) (*model.Form, error) {
	expiry, err := parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	ensureIDs(req.Sections)

	link := strings.TrimSpace(req.CustomLink)
	if link != "" {
		taken, err := s.Repo.IsCustomLinkTaken(ctx, link, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check custom link: %w", err)
		}
		if taken {
			return nil, apperr.ErrConflict
		}
	}

	form := &model.Form{
		ID:             id,
		Owner:          owner,
		Title:          req.Title,
		Description:    req.Description,
		Sections:       req.Sections,
		IsEditable:     req.IsEditable,
		AllowDeletion:  req.AllowDeletion,
		RequireAccount: req.RequireAccount,
		CustomLink:     link,
		ExpiryDate:     expiry,
	}

	updated, err := s.Repo.UpdateFormOwned(ctx, form)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Форма обновлена", zap.String("id", id))
	return updated, nil
}

// DeleteForm жёстко удаляет форму владельца.
// Осиротевшие отправки сохраняют денормализованный заголовок и подписи.
func (s *FormService) DeleteForm(ctx context.Context, id, owner string) error {
	return s.Repo.DeleteFormOwned(ctx, id, owner)
}

// ExpireForm немедленно истекает форму владельца и снимает её с публикации.
func (s *FormService) ExpireForm(ctx context.Context, id, owner string) (*model.Form, error) {
	return s.Repo.ExpireFormOwned(ctx, id, owner, time.Now())
}

// PublishForm публикует или снимает с публикации форму владельца.
// Публикация сбрасывает срок действия, снятие — выставляет его в now.
func (s *FormService) PublishForm(ctx context.Context, id, owner string, published bool) (*model.Form, error) {
	return s.Repo.SetPublishedOwned(ctx, id, owner, published, time.Now())
}

// Ping проверяет доступность хранилища.
func (s *FormService) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}
