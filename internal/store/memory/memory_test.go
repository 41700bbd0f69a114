package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/store"
)

func seedUser(t *testing.T, s *Store, username, token string, expiresAt *time.Time) *models.User {
	t.Helper()
	user := &models.User{
		ID:                     uuid.New(),
		Username:               username,
		Email:                  username + "@example.com",
		PasswordHash:           "hash",
		TelegramToken:          token,
		TelegramTokenExpiresAt: expiresAt,
	}
	if err := s.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return user
}

func TestCreateDuplicateUsername(t *testing.T) {
	s := New()
	seedUser(t, s, "alice", "", nil)

	err := s.Users().Create(context.Background(), &models.User{ID: uuid.New(), Username: "alice"})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestConsumeLinkToken(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(10 * time.Minute)
	past := now.Add(-10 * time.Minute)

	tests := []struct {
		name      string
		token     string
		expiresAt *time.Time
		consume   string
		wantErr   bool
	}{
		{name: "valid token", token: "tok-1", expiresAt: &future, consume: "tok-1", wantErr: false},
		{name: "wrong token", token: "tok-1", expiresAt: &future, consume: "tok-2", wantErr: true},
		{name: "expired token", token: "tok-1", expiresAt: &past, consume: "tok-1", wantErr: true},
		{name: "no expiry set", token: "tok-1", expiresAt: nil, consume: "tok-1", wantErr: true},
		{name: "empty token never matches", token: "", expiresAt: &future, consume: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			seedUser(t, s, "alice", tt.token, tt.expiresAt)

			user, err := s.Users().ConsumeLinkToken(context.Background(), tt.consume, "42", now)
			if tt.wantErr {
				if !errors.Is(err, store.ErrNotFound) {
					t.Errorf("ConsumeLinkToken() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConsumeLinkToken() error: %v", err)
			}
			if user.TelegramChatID != "42" {
				t.Errorf("chat id = %q, want 42", user.TelegramChatID)
			}
			if user.TelegramToken != "" || user.TelegramTokenExpiresAt != nil {
				t.Error("token not cleared after consumption")
			}
		})
	}
}

func TestConsumeLinkTokenIsOneShot(t *testing.T) {
	s := New()
	future := time.Now().UTC().Add(10 * time.Minute)
	seedUser(t, s, "alice", "tok-1", &future)

	if _, err := s.Users().ConsumeLinkToken(context.Background(), "tok-1", "42", time.Now().UTC()); err != nil {
		t.Fatalf("first ConsumeLinkToken() error: %v", err)
	}
	if _, err := s.Users().ConsumeLinkToken(context.Background(), "tok-1", "43", time.Now().UTC()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second ConsumeLinkToken() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateFieldsMergePatch(t *testing.T) {
	s := New()
	user := seedUser(t, s, "alice", "", nil)

	err := s.Users().UpdateFields(context.Background(), user.ID, map[string]interface{}{
		"skills":           []string{"go"},
		"telegram_chat_id": "42",
	})
	if err != nil {
		t.Fatalf("UpdateFields() error: %v", err)
	}

	got, err := s.Users().FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Error("UpdateFields() clobbered untouched fields")
	}
	if got.TelegramChatID != "42" || len(got.Skills) != 1 || got.Skills[0] != "go" {
		t.Errorf("UpdateFields() patch not applied: %+v", got)
	}
}

func TestUpdateFieldsUnknownUser(t *testing.T) {
	s := New()
	err := s.Users().UpdateFields(context.Background(), uuid.New(), map[string]interface{}{"telegram_chat_id": "42"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateFields() error = %v, want ErrNotFound", err)
	}
}

func TestFindReturnsCopies(t *testing.T) {
	s := New()
	user := seedUser(t, s, "alice", "", nil)

	got, err := s.Users().FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	got.Email = "tampered@example.com"

	again, err := s.Users().FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if again.Email != "alice@example.com" {
		t.Error("store handed out a live pointer instead of a copy")
	}
}
