package storage

import (
	"context"
	"sync"
	"time"

	"github.com/flexiforms/FlexiForms/internal/apperr"
	"github.com/flexiforms/FlexiForms/internal/model"
)

// UserStore — потокобезопасное in-memory хранилище пользователей.
type UserStore struct {
	mutex sync.RWMutex
	users map[string]*model.User
}

// NewUserStore создаёт пустое хранилище пользователей.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*model.User)}
}

// SaveUser сохраняет пользователя. Повторный email даёт ErrConflict.
func (s *UserStore) SaveUser(_ context.Context, user *model.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *UserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *UserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}
