// Package server exposes the portal REST API over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eduportal/internal/app"
	"eduportal/internal/ratelimit"
	"eduportal/internal/util"
	"eduportal/pkg/domain"
)

const sessionCookieName = "token"

// Config wires required dependencies for the HTTP server.
type Config struct {
	App        *app.App
	SessionTTL time.Duration
	// CookieSecure marks the session cookie Secure; enable behind TLS.
	CookieSecure bool

	TrustedProxies *util.TrustedProxies

	// Per-minute limits keyed by client IP; zero disables a limiter.
	RedisAddr                string
	RedisPassword            string
	SignupRateLimitPerMinute int
	LoginRateLimitPerMinute  int
	OTPRateLimitPerMinute    int
}

// Server exposes the portal's HTTP endpoints.
type Server struct {
	app          *app.App
	mux          *http.ServeMux
	sessionTTL   time.Duration
	cookieSecure bool
	proxies      *util.TrustedProxies

	signupLimiter *ratelimit.FixedWindowLimiter
	loginLimiter  *ratelimit.FixedWindowLimiter
	otpLimiter    *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	sessionTTL := cfg.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	s := &Server{
		app:          cfg.App,
		mux:          http.NewServeMux(),
		sessionTTL:   sessionTTL,
		cookieSecure: cfg.CookieSecure,
		proxies:      cfg.TrustedProxies,
	}
	var err error
	if s.signupLimiter, err = newLimiter(cfg, "signup", cfg.SignupRateLimitPerMinute); err != nil {
		return nil, err
	}
	if s.loginLimiter, err = newLimiter(cfg, "login", cfg.LoginRateLimitPerMinute); err != nil {
		return nil, err
	}
	if s.otpLimiter, err = newLimiter(cfg, "otp", cfg.OTPRateLimitPerMinute); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

func newLimiter(cfg Config, name string, perMinute int) (*ratelimit.FixedWindowLimiter, error) {
	if perMinute <= 0 {
		return nil, nil
	}
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, "eduportal:ratelimit:"+name, perMinute, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("init %s rate limiter: %w", name, err)
	}
	return limiter, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/api/auth/signup", s.limited(s.signupLimiter, s.handleSignup))
	s.mux.HandleFunc("/api/auth/login", s.limited(s.loginLimiter, s.handleLogin))
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.Handle("/api/auth/current-user", s.authenticated(s.handleCurrentUser))
	s.mux.Handle("/api/auth/protected", s.authenticated(s.handleProtected))
	s.mux.Handle("/api/auth/send-verify-otp", s.limitedAuth(s.otpLimiter, s.handleSendVerifyOTP))
	s.mux.Handle("/api/auth/verify-otp", s.authenticated(s.handleVerifyOTP))
	s.mux.HandleFunc("/api/auth/send-reset-otp", s.limited(s.otpLimiter, s.handleSendResetOTP))
	s.mux.HandleFunc("/api/auth/reset-password", s.handleResetPassword)

	// planner
	s.mux.Handle("/api/events", s.authenticated(s.handleEvents))
	s.mux.Handle("/api/events/", s.authenticated(s.handleEventByID))

	// notes
	s.mux.Handle("/api/notes", s.authenticated(s.handleNotes))
	s.mux.Handle("/api/notes/", s.authenticated(s.handleNoteByID))

	// library
	s.mux.Handle("/api/library", s.authenticated(s.handleLibrary))
	s.mux.Handle("/api/library/", s.authenticated(s.handleLibraryByID))

	// AI relay
	s.mux.Handle("/api/chat", s.authenticated(s.handleChat))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type authHandler func(http.ResponseWriter, *http.Request, domain.User)

func (s *Server) authenticated(next authHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.authorize(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, user)
	})
}

func (s *Server) limited(limiter *ratelimit.FixedWindowLimiter, next http.HandlerFunc) http.HandlerFunc {
	if limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(util.ClientIP(r, s.proxies)) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

func (s *Server) limitedAuth(limiter *ratelimit.FixedWindowLimiter, next authHandler) http.Handler {
	handler := s.authenticated(next)
	if limiter == nil {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(util.ClientIP(r, s.proxies)) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func (s *Server) authorize(r *http.Request) (domain.User, bool) {
	token, ok := sessionToken(r)
	if !ok {
		return domain.User{}, false
	}
	return s.app.UserFromToken(token)
}

func sessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeAppError maps core errors onto HTTP statuses, keeping the
// generic {"error": msg} payload shape.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, app.ErrAIUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, app.ErrOTPSendRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, app.ErrUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, app.ErrFieldsRequired),
		errors.Is(err, app.ErrEmailRequired),
		errors.Is(err, app.ErrMessageRequired),
		errors.Is(err, app.ErrAlreadyVerified),
		errors.Is(err, app.ErrOTPCodeInvalid),
		errors.Is(err, app.ErrOTPCodeExpired),
		errors.Is(err, app.ErrOTPCodeRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
