// Package app holds the portal's core application logic: accounts and
// sessions, planner events, notes, library resources, and the AI chat
// relay. HTTP concerns stay in internal/server.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"eduportal/pkg/ai"
	"eduportal/pkg/mailer"
	"eduportal/pkg/storage"
	"eduportal/pkg/store"
)

const (
	defaultSessionTTL   = 7 * 24 * time.Hour
	defaultHistoryLimit = 20
	defaultPresignTTL   = 15 * time.Minute
)

// Config holds runtime configuration for the core application.
// Store, Sessions, Mailer, Generator, and Objects may be injected
// directly (tests do); otherwise they are built from the settings.
type Config struct {
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string

	SessionStrategy string
	SessionTTL      time.Duration
	JWTSecret       string

	GeminiAPIKey string
	GeminiModel  string

	SendgridAPIKey   string
	EmailFromName    string
	EmailFromAddress string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MaxUploadBytes int64

	Store     store.Store
	Sessions  store.SessionStore
	Mailer    mailer.Mailer
	Generator ai.ChatGenerator
	Objects   storage.ObjectStore
	OTPRedis  string // overrides RedisAddr for the OTP store when set
}

// App is the core application service wiring storage, sessions, email,
// object storage, and the AI relay together.
type App struct {
	store          store.Store
	sessions       store.SessionStore
	otp            *otpStore
	mailer         mailer.Mailer
	generator      ai.ChatGenerator
	objects        storage.ObjectStore
	conversations  *conversationCache
	maxUploadBytes int64
}

// New constructs the application from config.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	dataStore := cfg.Store
	if dataStore == nil {
		var err error
		dataStore, err = store.NewMongoStore(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("init mongo store: %w", err)
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch cfg.SessionStrategy {
		case "jwt":
			var err error
			sessionStore, err = store.NewJWTSessionStore(cfg.JWTSecret, cfg.SessionTTL)
			if err != nil {
				return nil, fmt.Errorf("init jwt session store: %w", err)
			}
		default:
			sessionStore = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		}
	}

	otpAddr := cfg.OTPRedis
	if otpAddr == "" {
		otpAddr = cfg.RedisAddr
	}
	otp, err := newOTPStore(otpAddr, cfg.RedisPassword)
	if err != nil {
		return nil, fmt.Errorf("init otp store: %w", err)
	}

	mailSvc := cfg.Mailer
	if mailSvc == nil {
		if cfg.SendgridAPIKey != "" {
			mailSvc, err = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFromAddress)
			if err != nil {
				return nil, fmt.Errorf("init sendgrid mailer: %w", err)
			}
		} else {
			mailSvc = mailer.NewConsoleMailer()
		}
	}

	generator := cfg.Generator
	if generator == nil {
		if cfg.GeminiAPIKey == "" {
			slog.Warn("gemini api key not set, ai chat is disabled")
			generator = ai.NewDisabledGenerator()
		} else {
			generator, err = ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return nil, fmt.Errorf("init gemini client: %w", err)
			}
		}
	}

	objects := cfg.Objects
	if objects == nil && cfg.MinioEndpoint != "" {
		objects, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("init minio store: %w", err)
		}
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload == 0 {
		maxUpload = 20 << 20
	}

	return &App{
		store:          dataStore,
		sessions:       sessionStore,
		otp:            otp,
		mailer:         mailSvc,
		generator:      generator,
		objects:        objects,
		conversations:  newConversationCache(defaultHistoryLimit),
		maxUploadBytes: maxUpload,
	}, nil
}

// MaxUploadBytes reports the configured upload size cap.
func (a *App) MaxUploadBytes() int64 {
	return a.maxUploadBytes
}
