// Package memory is an in-memory store implementation with the same
// atomicity guarantees as the Postgres one, guarded by a single mutex.
// It backs the service tests and local development without a database.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/store"
)

type Store struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	jobs  map[uuid.UUID]*models.Job
}

func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]*models.User),
		jobs:  make(map[uuid.UUID]*models.Job),
	}
}

func (s *Store) Users() store.UserStore       { return (*userStore)(s) }
func (s *Store) Jobs() store.JobStore         { return (*jobStore)(s) }
func (s *Store) Ping(_ context.Context) error { return nil }
func (s *Store) Close() error                 { return nil }

// users

type userStore Store

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *userStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *userStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "skills":
			switch v := value.(type) {
			case pq.StringArray:
				u.Skills = v
			case []string:
				u.Skills = pq.StringArray(v)
			}
		case "telegram_chat_id":
			u.TelegramChatID = value.(string)
		case "telegram_token":
			u.TelegramToken = value.(string)
		case "telegram_token_expires_at":
			if value == nil {
				u.TelegramTokenExpiresAt = nil
			} else if t, ok := value.(*time.Time); ok {
				u.TelegramTokenExpiresAt = t
			} else if t, ok := value.(time.Time); ok {
				u.TelegramTokenExpiresAt = &t
			}
		default:
			return fmt.Errorf("unknown user field %q", key)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *userStore) ConsumeLinkToken(_ context.Context, token, chatID string, now time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return nil, store.ErrNotFound
	}
	for _, u := range s.users {
		if u.TelegramToken != token {
			continue
		}
		if u.TelegramTokenExpiresAt == nil || !u.TelegramTokenExpiresAt.After(now) {
			return nil, store.ErrNotFound
		}
		u.TelegramChatID = chatID
		u.TelegramToken = ""
		u.TelegramTokenExpiresAt = nil
		u.UpdatedAt = time.Now().UTC()
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

// jobs

type jobStore Store

func (s *jobStore) Create(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *jobStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []models.Job
	for _, j := range s.jobs {
		if j.OwnerID == ownerID {
			jobs = append(jobs, *j)
		}
	}
	return jobs, nil
}

func (s *jobStore) FindByOwner(_ context.Context, ownerID, id uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *jobStore) FindByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *jobStore) Update(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *jobStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}
