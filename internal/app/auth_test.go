package app

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"eduportal/pkg/ai"
	"eduportal/pkg/domain"
	"eduportal/pkg/mailer"
	"eduportal/pkg/store"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type stubGenerator struct {
	reply string
	err   error
	calls [][]domain.ChatMessage
}

func (g *stubGenerator) GenerateReply(_ context.Context, history []domain.ChatMessage, _ string) (string, error) {
	snapshot := make([]domain.ChatMessage, len(history))
	copy(snapshot, history)
	g.calls = append(g.calls, snapshot)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

var _ ai.ChatGenerator = (*stubGenerator)(nil)

type testApp struct {
	*App
	redis  *miniredis.Miniredis
	mailer *mailer.MemoryMailer
	gen    *stubGenerator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	r := miniredis.RunT(t)
	mails := mailer.NewMemoryMailer()
	gen := &stubGenerator{reply: "hello"}
	a, err := New(Config{
		RedisAddr:  r.Addr(),
		SessionTTL: time.Hour,
		Store:      store.NewMemoryStore(),
		Sessions:   store.NewRedisSessionStore(r.Addr(), "", time.Hour),
		Mailer:     mails,
		Generator:  gen,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return &testApp{App: a, redis: r, mailer: mails, gen: gen}
}

// lastMailCode pulls the six-digit code out of the most recent email.
func lastMailCode(t *testing.T, m *mailer.MemoryMailer) string {
	t.Helper()
	sent := m.Sent()
	if len(sent) == 0 {
		t.Fatal("no mail was sent")
	}
	code := codePattern.FindString(sent[len(sent)-1].Body)
	if code == "" {
		t.Fatalf("no code in mail body: %q", sent[len(sent)-1].Body)
	}
	return code
}

func TestSignUpAndLogin(t *testing.T) {
	ta := newTestApp(t)

	user, token, err := ta.SignUp("Ada Lovelace", "Ada@Example.com", "passw0rd")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatalf("signup returned empty id or token: %+v", user)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Verified {
		t.Fatal("new account must start unverified")
	}

	got, ok := ta.UserFromToken(token)
	if !ok || got.ID != user.ID {
		t.Fatalf("session token does not resolve to the new user: ok=%v got=%+v", ok, got)
	}

	if _, _, err := ta.SignUp("Other Name", "ada@example.com", "passw0rd"); err != ErrEmailAlreadyExists {
		t.Fatalf("duplicate email expected ErrEmailAlreadyExists, got %v", err)
	}

	// Login by email, case-insensitive.
	if _, _, err := ta.Login("ADA@example.com", "passw0rd"); err != nil {
		t.Fatalf("login by email: %v", err)
	}
	// Login by full name.
	if _, _, err := ta.Login("Ada Lovelace", "passw0rd"); err != nil {
		t.Fatalf("login by full name: %v", err)
	}
	if _, _, err := ta.Login("ada@example.com", "wrong-pass1"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := ta.Login("nobody@example.com", "passw0rd"); err != ErrInvalidCredentials {
		t.Fatalf("unknown user expected ErrInvalidCredentials, got %v", err)
	}
}

func TestWeakPasswordRejected(t *testing.T) {
	ta := newTestApp(t)
	if _, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "short"); err == nil {
		t.Fatal("weak password accepted at signup")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ta := newTestApp(t)
	_, token, err := ta.SignUp("Ada Lovelace", "ada@example.com", "passw0rd")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := ta.Logout(token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := ta.UserFromToken(token); ok {
		t.Fatal("token still valid after logout")
	}
}

func TestVerifyOTPFlow(t *testing.T) {
	ta := newTestApp(t)
	user, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "passw0rd")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	ctx := context.Background()
	if err := ta.SendVerifyOTP(ctx, user); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}
	code := lastMailCode(t, ta.mailer)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if err := ta.VerifyOTP(user, wrong); err != ErrOTPCodeInvalid {
		t.Fatalf("wrong code expected ErrOTPCodeInvalid, got %v", err)
	}
	if err := ta.VerifyOTP(user, code); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	stored, found, err := ta.App.store.GetUserByID(user.ID)
	if err != nil || !found || !stored.Verified {
		t.Fatalf("account not marked verified: found=%v err=%v user=%+v", found, err, stored)
	}

	// The challenge was consumed; a replay with a stale user snapshot fails.
	if err := ta.VerifyOTP(user, code); err != ErrOTPCodeInvalid {
		t.Fatalf("consumed code expected ErrOTPCodeInvalid, got %v", err)
	}

	if err := ta.SendVerifyOTP(ctx, stored); err != ErrAlreadyVerified {
		t.Fatalf("send on verified account expected ErrAlreadyVerified, got %v", err)
	}
}

func TestVerifyOTPResendThrottle(t *testing.T) {
	ta := newTestApp(t)
	user, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "passw0rd")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	ctx := context.Background()
	if err := ta.SendVerifyOTP(ctx, user); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := ta.SendVerifyOTP(ctx, user); err != ErrOTPSendRateLimited {
		t.Fatalf("immediate resend expected ErrOTPSendRateLimited, got %v", err)
	}
	ta.redis.FastForward(2 * time.Minute)
	if err := ta.SendVerifyOTP(ctx, user); err != nil {
		t.Fatalf("resend after window: %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	ta := newTestApp(t)
	_, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "oldpass1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	ctx := context.Background()
	if err := ta.SendResetOTP(ctx, "ada@example.com"); err != nil {
		t.Fatalf("send reset otp: %v", err)
	}
	code := lastMailCode(t, ta.mailer)

	// A wrong code must not touch the stored password.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if err := ta.ResetPassword("ada@example.com", wrong, "newpass1"); err != ErrOTPCodeInvalid {
		t.Fatalf("wrong code expected ErrOTPCodeInvalid, got %v", err)
	}
	if _, _, err := ta.Login("ada@example.com", "oldpass1"); err != nil {
		t.Fatalf("old password must still work after failed reset: %v", err)
	}

	if err := ta.ResetPassword("ada@example.com", code, "newpass1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, _, err := ta.Login("ada@example.com", "oldpass1"); err != ErrInvalidCredentials {
		t.Fatalf("old password expected ErrInvalidCredentials after reset, got %v", err)
	}
	if _, _, err := ta.Login("ada@example.com", "newpass1"); err != nil {
		t.Fatalf("new password: %v", err)
	}

	// The code was consumed by the successful reset.
	if err := ta.ResetPassword("ada@example.com", code, "another1"); err != ErrOTPCodeInvalid {
		t.Fatalf("consumed code expected ErrOTPCodeInvalid, got %v", err)
	}
}

func TestResetOTPUnknownEmailIsSilent(t *testing.T) {
	ta := newTestApp(t)
	if err := ta.SendResetOTP(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if sent := ta.mailer.Sent(); len(sent) != 0 {
		t.Fatalf("no mail should go to unknown addresses, got %d", len(sent))
	}
}

func TestOTPPurposesAreIsolated(t *testing.T) {
	ta := newTestApp(t)
	user, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "oldpass1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := ta.SendVerifyOTP(context.Background(), user); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}
	code := lastMailCode(t, ta.mailer)

	// A verification code must not reset the password.
	if err := ta.ResetPassword("ada@example.com", code, "newpass1"); err != ErrOTPCodeInvalid {
		t.Fatalf("verify code used for reset expected ErrOTPCodeInvalid, got %v", err)
	}
	if _, _, err := ta.Login("ada@example.com", "oldpass1"); err != nil {
		t.Fatalf("password must be unchanged: %v", err)
	}
	// It still works for its own purpose.
	if err := ta.VerifyOTP(user, code); err != nil {
		t.Fatalf("verify otp after failed cross-purpose use: %v", err)
	}
}

func TestOTPAttemptsBurnChallenge(t *testing.T) {
	ta := newTestApp(t)
	user, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "passw0rd")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := ta.SendVerifyOTP(context.Background(), user); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}
	code := lastMailCode(t, ta.mailer)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < 5; i++ {
		if err := ta.VerifyOTP(user, wrong); err != ErrOTPCodeInvalid {
			t.Fatalf("attempt %d expected ErrOTPCodeInvalid, got %v", i+1, err)
		}
	}
	// The challenge is gone; even the real code no longer works.
	if err := ta.VerifyOTP(user, code); err != ErrOTPCodeInvalid {
		t.Fatalf("burned challenge expected ErrOTPCodeInvalid, got %v", err)
	}
}

func TestOTPChallengeExpires(t *testing.T) {
	ta := newTestApp(t)
	user, _, err := ta.SignUp("Ada Lovelace", "ada@example.com", "passw0rd")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := ta.SendVerifyOTP(context.Background(), user); err != nil {
		t.Fatalf("send verify otp: %v", err)
	}
	code := lastMailCode(t, ta.mailer)

	ta.redis.FastForward(20 * time.Minute)
	if err := ta.VerifyOTP(user, code); err != ErrOTPCodeInvalid {
		t.Fatalf("expired challenge expected ErrOTPCodeInvalid, got %v", err)
	}
	stored, _, _ := ta.App.store.GetUserByID(user.ID)
	if stored.Verified {
		t.Fatal("account must stay unverified after expiry")
	}
}
