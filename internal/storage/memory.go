// Package storage содержит in-memory реализации хранилищ.
// Используется в режиме in-memory и в модульных тестах;
// семантика повторяет реализации на PostgreSQL.
package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
)

// FormStore — потокобезопасное in-memory хранилище форм.
type FormStore struct {
	mutex sync.RWMutex
	forms map[string]*model.Form
}

// NewFormStore создаёт пустое хранилище форм.
func NewFormStore() *FormStore {
	return &FormStore{forms: make(map[string]*model.Form)}
}

func cloneForm(f *model.Form) *model.Form {
	copied := *f
	copied.Sections = append([]model.Section(nil), f.Sections...)
	return &copied
}

// SaveForm сохраняет форму. Повтор custom_link или url_id даёт ErrConflict.
func (s *FormStore) SaveForm(_ context.Context, form *model.Form) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.forms {
		if form.CustomLink != "" && existing.CustomLink == form.CustomLink {
			return apperr.ErrConflict
		}
		if existing.URLID == form.URLID {
			return apperr.ErrConflict
		}
	}
	now := time.Now()
	form.CreatedAt = now
	form.UpdatedAt = now
	s.forms[form.ID] = cloneForm(form)
	return nil
}

// GetFormByID возвращает форму по идентификатору.
func (s *FormStore) GetFormByID(_ context.Context, id string) (*model.Form, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	form, ok := s.forms[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return cloneForm(form), nil
}

// GetFormByCustomLink возвращает форму по пользовательской ссылке.
func (s *FormStore) GetFormByCustomLink(_ context.Context, link string) (*model.Form, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, form := range s.forms {
		if form.CustomLink != "" && form.CustomLink == link {
			return cloneForm(form), nil
		}
	}
	return nil, apperr.ErrNotFound
}

// GetFormByURLID возвращает форму по публичному идентификатору.
func (s *FormStore) GetFormByURLID(_ context.Context, urlID string) (*model.Form, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, form := range s.forms {
		if form.URLID == urlID {
			return cloneForm(form), nil
		}
	}
	return nil, apperr.ErrNotFound
}

// GetFormsByOwner возвращает формы пользователя от новых к старым.
func (s *FormStore) GetFormsByOwner(_ context.Context, owner string) ([]*model.Form, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var results []*model.Form
	for _, form := range s.forms {
		if form.Owner == owner {
			results = append(results, cloneForm(form))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

// GetExpiredFormsByOwner возвращает истёкшие формы пользователя.
func (s *FormStore) GetExpiredFormsByOwner(_ context.Context, owner string, now time.Time) ([]*model.Form, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var results []*model.Form
	for _, form := range s.forms {
		if form.Owner == owner && form.IsExpired(now) {
			results = append(results, cloneForm(form))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ExpiryDate.After(*results[j].ExpiryDate)
	})
	return results, nil
}

// IsCustomLinkTaken проверяет, занята ли пользовательская ссылка другой формой.
func (s *FormStore) IsCustomLinkTaken(_ context.Context, link, excludeID string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, form := range s.forms {
		if form.CustomLink == link && form.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// UpdateFormOwned обновляет форму по совмещённому фильтру id+owner.
func (s *FormStore) UpdateFormOwned(_ context.Context, form *model.Form) (*model.Form, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, ok := s.forms[form.ID]
	if !ok || existing.Owner != form.Owner {
		return nil, apperr.ErrNotFound
	}
	now := time.Now()
	existing.Title = form.Title
	existing.Description = form.Description
	existing.Sections = append([]model.Section(nil), form.Sections...)
	existing.IsEditable = form.IsEditable
	existing.AllowDeletion = form.AllowDeletion
	existing.RequireAccount = form.RequireAccount
	existing.CustomLink = form.CustomLink
	existing.ExpiryDate = form.ExpiryDate
	existing.LastEditedAt = &now
	existing.UpdatedAt = now
	return cloneForm(existing), nil
}

// DeleteFormOwned жёстко удаляет форму по фильтру id+owner.
func (s *FormStore) DeleteFormOwned(_ context.Context, id, owner string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	form, ok := s.forms[id]
	if !ok || form.Owner != owner {
		return apperr.ErrNotFound
	}
	delete(s.forms, id)
	return nil
}

// ExpireFormOwned немедленно истекает форму владельца.
func (s *FormStore) ExpireFormOwned(_ context.Context, id, owner string, now time.Time) (*model.Form, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	form, ok := s.forms[id]
	if !ok || form.Owner != owner {
		return nil, apperr.ErrNotFound
	}
	expiry := now
	form.ExpiryDate = &expiry
	form.Published = false
	form.UpdatedAt = now
	return cloneForm(form), nil
}

// SetPublishedOwned публикует или снимает с публикации форму владельца.
func (s *FormStore) SetPublishedOwned(_ context.Context, id, owner string, published bool, now time.Time) (*model.Form, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	form, ok := s.forms[id]
	if !ok || form.Owner != owner {
		return nil, apperr.ErrNotFound
	}
	form.Published = published
	if published {
		form.ExpiryDate = nil
	} else {
		expiry := now
		form.ExpiryDate = &expiry
	}
	form.UpdatedAt = now
	return cloneForm(form), nil
}

// Ping для in-memory хранилища всегда успешен.
func (s *FormStore) Ping(_ context.Context) error {
	return nil
}
