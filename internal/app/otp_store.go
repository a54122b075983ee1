package app

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// OTP purposes. Email verification and password reset are distinct
// challenges with independent lifecycles; a code issued for one purpose
// never validates the other.
const (
	otpPurposeVerify = "verify"
	otpPurposeReset  = "reset"
)

var (
	ErrOTPSendRateLimited = errors.New("too many verification code requests")
	ErrOTPCodeInvalid     = errors.New("incorrect verification code")
	ErrOTPCodeExpired     = errors.New("verification code expired")
	ErrOTPCodeRequired    = errors.New("verification code is required")
)

type otpStore struct {
	client            *redis.Client
	keyPrefix         string
	challengeTTL      time.Duration
	resendAfter       time.Duration
	maxVerifyAttempts int
}

type otpChallenge struct {
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

func newOTPStore(addr, password string) (*otpStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("otp redis addr is required")
	}
	return &otpStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		keyPrefix:         "eduportal:otp",
		challengeTTL:      15 * time.Minute,
		resendAfter:       time.Minute,
		maxVerifyAttempts: 5,
	}, nil
}

// CreateChallenge issues a fresh code for the email/purpose pair,
// replacing any outstanding one. It returns the plain code for delivery.
func (s *otpStore) CreateChallenge(email, purpose string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resendKey := s.resendKey(email, purpose)
	allowed, err := s.client.SetNX(ctx, resendKey, "1", s.resendAfter).Result()
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrOTPSendRateLimited
	}

	code, err := generateNumericCode(6)
	if err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", fmt.Errorf("hash otp code: %w", err)
	}
	challenge := otpChallenge{
		Email:     email,
		Purpose:   purpose,
		CodeHash:  string(codeHash),
		ExpiresAt: time.Now().UTC().Add(s.challengeTTL),
	}
	raw, err := json.Marshal(challenge)
	if err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", fmt.Errorf("marshal otp challenge: %w", err)
	}
	// Kept slightly past expiry so an expired code reports "expired"
	// instead of "incorrect".
	if err := s.client.Set(ctx, s.challengeKey(email, purpose), raw, s.challengeTTL+time.Minute).Err(); err != nil {
		_ = s.client.Del(ctx, resendKey).Err()
		return "", err
	}
	return code, nil
}

// VerifyChallenge checks the code and consumes the challenge on success.
// Codes are single-use; repeated wrong guesses burn the challenge.
func (s *otpStore) VerifyChallenge(email, purpose, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrOTPCodeRequired
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := s.challengeKey(email, purpose)
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrOTPCodeInvalid
	}
	if err != nil {
		return err
	}
	var challenge otpChallenge
	if err := json.Unmarshal(raw, &challenge); err != nil {
		return fmt.Errorf("unmarshal otp challenge: %w", err)
	}
	if challenge.Email != email || challenge.Purpose != purpose {
		return ErrOTPCodeInvalid
	}
	if time.Now().UTC().After(challenge.ExpiresAt) {
		_ = s.client.Del(ctx, key).Err()
		return ErrOTPCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		challenge.Attempts++
		if challenge.Attempts >= s.maxVerifyAttempts {
			_ = s.client.Del(ctx, key).Err()
		} else if updated, marshalErr := json.Marshal(challenge); marshalErr == nil {
			ttl, ttlErr := s.client.TTL(ctx, key).Result()
			if ttlErr == nil && ttl > 0 {
				_ = s.client.Set(ctx, key, updated, ttl).Err()
			}
		}
		return ErrOTPCodeInvalid
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return err
	}
	return nil
}

func (s *otpStore) challengeKey(email, purpose string) string {
	return fmt.Sprintf("%s:challenge:%s:%s", s.keyPrefix, purpose, email)
}

func (s *otpStore) resendKey(email, purpose string) string {
	return fmt.Sprintf("%s:resend:%s:%s", s.keyPrefix, purpose, email)
}

func generateNumericCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
