// Package identity resolves external handles to internal user records. It is
// the only place a session may be created from, which keeps the completeness
// invariant in one spot instead of scattered across handlers.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/okanassist/okanassist-backend/internal/models"
	"github.com/okanassist/okanassist-backend/internal/repository"
	"github.com/okanassist/okanassist-backend/internal/session"
)

var (
	// ErrNotRegistered is returned when no identity is linked to the handle
	// and no link hint was supplied; the caller should prompt registration.
	ErrNotRegistered = errors.New("user not registered")
	// ErrLinkFailed is returned when binding a handle to a supplied internal
	// identity failed; retryable by user action.
	ErrLinkFailed = errors.New("failed to link account")
	// ErrAlreadyRegistered is returned when registering a handle that is
	// already bound to an identity.
	ErrAlreadyRegistered = errors.New("handle already registered")
	// ErrIncomplete is returned when a record stays incomplete even after
	// the one-shot completion pass.
	ErrIncomplete = errors.New("user record incomplete")
)

// AuthCheckRequest carries the handle plus the first-contact hints. It is
// built per request and never persisted.
type AuthCheckRequest struct {
	Handle     string
	LinkUserID string // internal-id hint for first-time linking
	Name       string
	Language   string
	Timezone   string
	Currency   string
}

// RegisterRequest carries the data needed to create a new identity
type RegisterRequest struct {
	Handle   string
	Name     string
	Email    string
	Language string
	Timezone string
}

// Service orchestrates authentication over the session cache and the user
// store
type Service struct {
	users    repository.UserRepository
	sessions *session.Manager
	log      *logrus.Logger
}

// NewService creates a new identity service
func NewService(users repository.UserRepository, sessions *session.Manager, log *logrus.Logger) *Service {
	return &Service{users: users, sessions: sessions, log: log}
}

// ResolveSession returns the session for a handle, serving a live complete
// cache entry when one exists and performing full authentication otherwise.
// A non-error return always satisfies the completeness invariant.
func (s *Service) ResolveSession(ctx context.Context, req AuthCheckRequest) (*session.Session, error) {
	if cached, ok := s.sessions.Get(req.Handle); ok {
		return &cached, nil
	}

	user, err := s.authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	sess := SessionFromUser(user)
	s.sessions.Create(req.Handle, sess)
	s.log.WithFields(logrus.Fields{"handle": req.Handle, "user_id": user.ID}).
		Info("session created")
	return &sess, nil
}

// Invalidate drops any cached session for the handle
func (s *Service) Invalidate(handle string) {
	s.sessions.Invalidate(handle)
}

// authenticate walks the unlinked/linking/linked states for a handle.
func (s *Service) authenticate(ctx context.Context, req AuthCheckRequest) (*models.User, error) {
	user, err := s.users.GetByHandle(ctx, req.Handle)
	if err == nil {
		return s.ensureComplete(ctx, user, req.Handle)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup by handle: %w", err)
	}

	// Unlinked. A link hint moves us through the linking state; without one
	// the user must onboard first.
	if req.LinkUserID == "" {
		return nil, ErrNotRegistered
	}

	linkID, err := uuid.Parse(req.LinkUserID)
	if err != nil {
		return nil, ErrLinkFailed
	}
	if err := s.users.LinkHandle(ctx, linkID, req.Handle); err != nil {
		s.log.WithError(err).WithField("handle", req.Handle).Warn("handle link failed")
		return nil, ErrLinkFailed
	}

	user, err = s.users.GetByHandle(ctx, req.Handle)
	if err != nil {
		s.log.WithError(err).WithField("handle", req.Handle).Warn("re-fetch after link failed")
		return nil, ErrLinkFailed
	}
	return s.ensureComplete(ctx, user, req.Handle)
}

// ensureComplete runs at most one best-effort re-fetch when a record is
// missing required fields, then gives up rather than looping.
func (s *Service) ensureComplete(ctx context.Context, user *models.User, handle string) (*models.User, error) {
	if user.Complete() {
		return user, nil
	}

	s.log.WithField("handle", handle).Warn("incomplete user record, attempting completion pass")
	refetched, err := s.users.GetByID(ctx, user.ID)
	if err != nil || !refetched.Complete() {
		return nil, ErrIncomplete
	}
	return refetched, nil
}

// Register creates a new identity already linked to the handle. It returns
// the fresh session and the generated mobile-app password, which is shown to
// the user exactly once and stored only as a bcrypt hash.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*session.Session, string, error) {
	if _, err := s.authenticate(ctx, AuthCheckRequest{Handle: req.Handle}); err == nil {
		return nil, "", ErrAlreadyRegistered
	} else if !errors.Is(err, ErrNotRegistered) {
		return nil, "", err
	}

	password, err := GeneratePassword()
	if err != nil {
		return nil, "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		TelegramID:   req.Handle,
		PasswordHash: hash,
		Language:     req.Language,
		Timezone:     tz,
		Currency:     InferCurrency(tz),
		Credits:      InitialCredits,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	sess := SessionFromUser(user)
	s.sessions.Create(req.Handle, sess)
	s.log.WithFields(logrus.Fields{"handle": req.Handle, "user_id": user.ID}).
		Info("user registered")
	return &sess, password, nil
}

// InitialCredits is the metered allowance granted at registration
const InitialCredits = 50

// SessionFromUser builds the cacheable session view of a user record
func SessionFromUser(u *models.User) session.Session {
	return session.Session{
		UserID:        u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		Language:      u.Language,
		Timezone:      u.Timezone,
		Currency:      u.Currency,
		IsPremium:     u.Premium(),
		PremiumUntil:  u.PremiumUntil,
		Authenticated: true,
	}
}
