package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/autotrackr/autotrackr/internal/auth"
	"github.com/autotrackr/autotrackr/internal/dtos"
	"github.com/autotrackr/autotrackr/internal/logger"
	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/store/memory"
)

// fakeNotifier records sends and can be told to fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, chatID+": "+text)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var errNotifierDown = errors.New("notifier down")

type fixture struct {
	store    *memory.Store
	notifier *fakeNotifier
	tokens   *auth.TokenService
	users    *UserService
	links    *LinkService
	jobs     *JobService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New()
	n := &fakeNotifier{}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	log := logger.Nop()

	return &fixture{
		store:    st,
		notifier: n,
		tokens:   tokens,
		users:    NewUserService(st.Users(), tokens, n, log),
		links:    NewLinkService(st.Users(), n, "autotrackr_bot", 15*time.Minute, log),
		jobs:     NewJobService(st.Jobs(), n, log),
	}
}

func (f *fixture) signup(t *testing.T, username string, skills []string) *models.User {
	t.Helper()

	err := f.users.Signup(context.Background(), dtos.SignupRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse battery",
		Skills:   skills,
	})
	if err != nil {
		t.Fatalf("Signup(%q) error: %v", username, err)
	}

	user, err := f.store.Users().FindByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("FindByUsername(%q) error: %v", username, err)
	}
	return user
}
