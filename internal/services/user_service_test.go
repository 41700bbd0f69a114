package services

import (
	"context"
	"testing"

	"github.com/autotrackr/autotrackr/internal/apperr"
	"github.com/autotrackr/autotrackr/internal/dtos"
)

func TestSignupConflict(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", nil)

	// Same username, everything else different.
	err := f.users.Signup(context.Background(), dtos.SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "a completely different pw",
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("Signup() duplicate username error kind = %v, want conflict", apperr.KindOf(err))
	}
}

func TestLoginThenVerifyResolvesSameAccount(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", nil)

	token, err := f.users.Login(context.Background(), "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	subject, err := f.tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if subject != "alice" {
		t.Errorf("Verify() subject = %q, want %q", subject, "alice")
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", nil)

	_, unknownErr := f.users.Login(context.Background(), "nobody", "whatever")
	_, wrongPwErr := f.users.Login(context.Background(), "alice", "wrong password")

	if !apperr.Is(unknownErr, apperr.KindUnauthenticated) {
		t.Errorf("unknown user error kind = %v, want unauthenticated", apperr.KindOf(unknownErr))
	}
	if !apperr.Is(wrongPwErr, apperr.KindUnauthenticated) {
		t.Errorf("wrong password error kind = %v, want unauthenticated", apperr.KindOf(wrongPwErr))
	}
	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("error messages differ: %q vs %q", unknownErr, wrongPwErr)
	}
}

func TestUpdateSkills(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "alice", []string{"python"})

	if err := f.users.UpdateSkills(context.Background(), user, []string{"go", "postgres"}); err != nil {
		t.Fatalf("UpdateSkills() error: %v", err)
	}

	updated, err := f.store.Users().FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("FindByID() error: %v", err)
	}
	if len(updated.Skills) != 2 || updated.Skills[0] != "go" || updated.Skills[1] != "postgres" {
		t.Errorf("skills = %v, want [go postgres]", updated.Skills)
	}
}

func TestSendTestRequiresLinkedChat(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "alice", nil)

	err := f.users.SendTest(context.Background(), user)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("SendTest() unlinked error kind = %v, want validation", apperr.KindOf(err))
	}
	if f.notifier.count() != 0 {
		t.Errorf("notifier sent %d messages for an unlinked account, want 0", f.notifier.count())
	}

	user.TelegramChatID = "12345"
	if err := f.users.SendTest(context.Background(), user); err != nil {
		t.Fatalf("SendTest() linked error: %v", err)
	}
	if f.notifier.count() != 1 {
		t.Errorf("notifier sent %d messages, want 1", f.notifier.count())
	}
}
