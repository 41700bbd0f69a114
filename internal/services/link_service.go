package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/autotrackr/autotrackr/internal/apperr"
	"github.com/autotrackr/autotrackr/internal/logger"
	"github.com/autotrackr/autotrackr/internal/models"
	"github.com/autotrackr/autotrackr/internal/notify"
	"github.com/autotrackr/autotrackr/internal/store"
)

// LinkService handles the one-time-token handshake that ties a Telegram
// chat to an account: the user opens a t.me deep link, the bot receives
// "/start <token>" and the webhook exchanges the token for the chat id.
type LinkService struct {
	users       store.UserStore
	notifier    notify.Notifier
	botUsername string
	tokenTTL    time.Duration
	log         logger.Logger
}

func NewLinkService(users store.UserStore, notifier notify.Notifier, botUsername string, tokenTTL time.Duration, log logger.Logger) *LinkService {
	return &LinkService{
		users:       users,
		notifier:    notifier,
		botUsername: botUsername,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

func (s *LinkService) BotUsername() string { return s.botUsername }

// GenerateLink stores a fresh pending token on the account, replacing any
// previous one, and returns the deep link plus the raw token. Tokens expire
// after the configured TTL; only the most recently generated token can be
// exchanged.
func (s *LinkService) GenerateLink(ctx context.Context, user *models.User) (link, token string, err error) {
	token, err = randomToken()
	if err != nil {
		return "", "", apperr.Internal("failed to generate link token", err)
	}

	expiresAt := time.Now().UTC().Add(s.tokenTTL)
	err = s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"telegram_token":            token,
		"telegram_token_expires_at": expiresAt,
	})
	if err != nil {
		return "", "", apperr.Internal("failed to store link token", err)
	}

	return fmt.Sprintf("https://t.me/%s?start=%s", s.botUsername, token), token, nil
}

// Exchange consumes a pending link token and binds the chat id to its
// account. Unknown, expired and already-consumed tokens are all reported as
// not found; at most one of any concurrent exchanges for the same token
// succeeds.
func (s *LinkService) Exchange(ctx context.Context, token, chatID string) (*models.User, error) {
	user, err := s.users.ConsumeLinkToken(ctx, token, chatID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("invalid or expired link token")
		}
		return nil, apperr.Internal("failed to exchange link token", err)
	}
	return user, nil
}

// HandleStart processes a "/start" command from the webhook. All notifier
// failures are swallowed: the webhook must acknowledge regardless.
func (s *LinkService) HandleStart(ctx context.Context, chatID, token string) {
	if token == "" {
		s.send(ctx, chatID, "👋 Welcome to AutoTracker Bot!\n\nTo link your account, please use the link from your Settings page.")
		return
	}

	user, err := s.Exchange(ctx, token, chatID)
	if err != nil {
		s.log.Info("link token exchange failed", logger.String("chat_id", chatID), logger.Error(err))
		s.send(ctx, chatID, "❌ Invalid or expired link. Please generate a new link from the Settings page.")
		return
	}

	s.log.Info("telegram chat linked", logger.String("chat_id", chatID), logger.String("username", user.Username))
	s.send(ctx, chatID, "✅ Successfully linked to your AutoTracker account!\n\nYou will now receive job notifications here.")
}

func (s *LinkService) send(ctx context.Context, chatID, text string) {
	if err := s.notifier.Send(ctx, chatID, text); err != nil {
		s.log.Warn("telegram notice failed", logger.String("chat_id", chatID), logger.Error(err))
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
