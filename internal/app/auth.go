package app

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"eduportal/internal/util"
	"eduportal/pkg/auth"
	"eduportal/pkg/domain"
	"eduportal/pkg/mailer"
)

// SignUp registers a new account and issues a session token.
func (a *App) SignUp(fullName, email, password string) (domain.User, string, error) {
	fullName = strings.TrimSpace(fullName)
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}
	if fullName == "" || password == "" {
		return domain.User{}, "", ErrFieldsRequired
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, "", err
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyExists
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           util.NewID(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Login validates credentials (email or full name) and issues a session.
func (a *App) Login(identifier, password string) (domain.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	user, ok, err := a.store.GetUserByIdentifier(identifier)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok || !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

// Logout invalidates the session token.
func (a *App) Logout(token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return a.sessions.DeleteSession(token)
}

// UserFromToken resolves a user from a session token.
func (a *App) UserFromToken(token string) (domain.User, bool) {
	uid, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil || !ok {
		return domain.User{}, false
	}
	user, found, err := a.store.GetUserByID(uid)
	if err != nil || !found {
		return domain.User{}, false
	}
	return user, true
}

// SendVerifyOTP issues an email-verification code for the authenticated
// account and mails it.
func (a *App) SendVerifyOTP(ctx context.Context, user domain.User) error {
	if user.Verified {
		return ErrAlreadyVerified
	}
	code, err := a.otp.CreateChallenge(user.Email, otpPurposeVerify)
	if err != nil {
		return err
	}
	return a.mailer.Send(ctx, mailer.Message{
		ToName:  user.FullName,
		ToEmail: user.Email,
		Subject: "Verify your email",
		Body:    fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in 15 minutes.\n", user.FullName, code),
	})
}

// VerifyOTP validates a verification code and marks the account verified.
func (a *App) VerifyOTP(user domain.User, code string) error {
	if user.Verified {
		return ErrAlreadyVerified
	}
	if err := a.otp.VerifyChallenge(user.Email, otpPurposeVerify, code); err != nil {
		return err
	}
	user.Verified = true
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveUser(user); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// SendResetOTP issues a password-reset code for the email and mails it.
// An unknown email reports success to the caller so the endpoint cannot
// be used to probe for accounts; no code is issued.
func (a *App) SendResetOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return nil
	}
	code, err := a.otp.CreateChallenge(email, otpPurposeReset)
	if err != nil {
		return err
	}
	return a.mailer.Send(ctx, mailer.Message{
		ToName:  user.FullName,
		ToEmail: email,
		Subject: "Reset your password",
		Body:    fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in 15 minutes.\nIf you did not request this, you can ignore this email.\n", user.FullName, code),
	})
}

// ResetPassword validates a reset code and overwrites the password hash.
// The stored hash is untouched unless the code checks out.
func (a *App) ResetPassword(email, code, newPassword string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return err
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return ErrOTPCodeInvalid
	}
	if err := a.otp.VerifyChallenge(email, otpPurposeReset, code); err != nil {
		return err
	}
	passwordHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveUser(user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("email format is invalid")
	}
	return email, nil
}
