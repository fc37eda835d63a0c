package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
)

// SubmissionStore — потокобезопасное in-memory хранилище отправок.
type SubmissionStore struct {
	mutex       sync.RWMutex
	submissions map[string]*model.Submission
	forms       *FormStore // для join ограниченных полей формы
}

// NewSubmissionStore создаёт пустое хранилище отправок поверх хранилища форм.
func NewSubmissionStore(forms *FormStore) *SubmissionStore {
	return &SubmissionStore{
		submissions: make(map[string]*model.Submission),
		forms:       forms,
	}
}

func cloneSubmission(s *model.Submission) *model.Submission {
	copied := *s
	copied.Responses = make(map[string]any, len(s.Responses))
	for k, v := range s.Responses {
		copied.Responses[k] = v
	}
	copied.FieldLabels = make(map[string]string, len(s.FieldLabels))
	for k, v := range s.FieldLabels {
		copied.FieldLabels[k] = v
	}
	return &copied
}

// SaveSubmission сохраняет отправку.
func (s *SubmissionStore) SaveSubmission(_ context.Context, sub *model.Submission) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	s.submissions[sub.ID] = cloneSubmission(sub)
	return nil
}

// GetSubmissionByID возвращает отправку по идентификатору.
func (s *SubmissionStore) GetSubmissionByID(_ context.Context, id string) (*model.Submission, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return cloneSubmission(sub), nil
}

// GetSubmissionsByForm возвращает отправки формы от новых к старым.
func (s *SubmissionStore) GetSubmissionsByForm(_ context.Context, formID string) ([]*model.Submission, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var results []*model.Submission
	for _, sub := range s.submissions {
		if sub.FormID == formID {
			results = append(results, cloneSubmission(sub))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

// GetSubmissionsByUser возвращает отправки пользователя от новых к старым
// вместе с ограниченным срезом полей формы (если форма ещё существует).
func (s *SubmissionStore) GetSubmissionsByUser(ctx context.Context, userID string) ([]*model.SubmissionWithForm, error) {
	s.mutex.RLock()
	var subs []*model.Submission
	for _, sub := range s.submissions {
		if sub.SubmittedBy == userID {
			subs = append(subs, cloneSubmission(sub))
		}
	}
	s.mutex.RUnlock()

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})

	results := make([]*model.SubmissionWithForm, 0, len(subs))
	for _, sub := range subs {
		item := &model.SubmissionWithForm{Submission: *sub}
		if form, err := s.forms.GetFormByID(ctx, sub.FormID); err == nil {
			item.Form = &model.SubmissionFormInfo{
				Title:         form.Title,
				IsEditable:    form.IsEditable,
				AllowDeletion: form.AllowDeletion,
			}
		}
		results = append(results, item)
	}
	return results, nil
}

// UpdateSubmissionResponses целиком заменяет карту ответов отправки.
func (s *SubmissionStore) UpdateSubmissionResponses(_ context.Context, id string, responses map[string]any) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return apperr.ErrNotFound
	}
	sub.Responses = make(map[string]any, len(responses))
	for k, v := range responses {
		sub.Responses[k] = v
	}
	sub.UpdatedAt = time.Now()
	return nil
}

// DeleteSubmission жёстко удаляет отправку.
func (s *SubmissionStore) DeleteSubmission(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.submissions[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.submissions, id)
	return nil
}
