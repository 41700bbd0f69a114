package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/autotrackr/autotrackr/internal/apperr"
	"github.com/autotrackr/autotrackr/internal/auth"
	"github.com/autotrackr/autotrackr/internal/dtos"
	"github.com/autotrackr/autotrackr/internal/logger"
	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/notify"
	"github.com/autotrackr/autotrackr/internal/store"
)

type UserService struct {
	users    store.UserStore
	tokens   *auth.TokenService
	notifier notify.Notifier
	log      logger.Logger
}

func NewUserService(users store.UserStore, tokens *auth.TokenService, notifier notify.Notifier, log logger.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, notifier: notifier, log: log}
}

func (s *UserService) Signup(ctx context.Context, req dtos.SignupRequest) error {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hash,
		Skills:         pq.StringArray(req.Skills),
		TelegramChatID: req.TelegramChatID,
	}
	if user.Skills == nil {
		user.Skills = pq.StringArray{}
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return apperr.Conflict("username already exists")
		}
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

// Login authenticates the credentials and issues a bearer token. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.Unauthenticated("invalid username or password")
		}
		return "", apperr.Internal("failed to look up user", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", apperr.Unauthenticated("invalid username or password")
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", apperr.Internal("failed to issue token", err)
	}
	return token, nil
}

func (s *UserService) Profile(user *models.User) dtos.ProfileResponse {
	return dtos.ProfileResponse{
		Username:       user.Username,
		Email:          user.Email,
		TelegramChatID: user.TelegramChatID,
		Skills:         user.Skills,
	}
}

func (s *UserService) UpdateSkills(ctx context.Context, user *models.User, skills []string) error {
	if skills == nil {
		skills = []string{}
	}
	err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"skills": pq.StringArray(skills),
	})
	if err != nil {
		return apperr.Internal("failed to update skills", err)
	}
	return nil
}

func (s *UserService) UpdateChatID(ctx context.Context, user *models.User, chatID string) error {
	err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"telegram_chat_id": chatID,
	})
	if err != nil {
		return apperr.Internal("failed to update telegram chat id", err)
	}
	return nil
}

// SendTest pushes a test message to the user's linked chat so they can
// confirm the link works end to end.
func (s *UserService) SendTest(ctx context.Context, user *models.User) error {
	if user.TelegramChatID == "" {
		return apperr.Validation("no telegram chat linked to this account")
	}
	if err := s.notifier.Send(ctx, user.TelegramChatID, "✅ Test notification from AutoTracker. Your account is linked!"); err != nil {
		s.log.Warn("test notification failed", logger.String("username", user.Username), logger.Error(err))
		return apperr.Unavailable("failed to deliver test notification")
	}
	return nil
}
