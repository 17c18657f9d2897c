package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidEmail = errors.New("invalid email format")
)

// AuthBackend is the subset of the Firebase auth client the server uses
type AuthBackend interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	EmailVerificationLink(ctx context.Context, email string) (string, error)
}

// IdentityService turns Firebase credentials into navigator sessions
type IdentityService struct {
	auth       AuthBackend
	signer     PasswordSigner
	docs       DocumentStore
	sessionTTL time.Duration
}

func NewIdentityService(backend AuthBackend, signer PasswordSigner, docs DocumentStore, sessionTTL time.Duration) *IdentityService {
	return &IdentityService{auth: backend, signer: signer, docs: docs, sessionTTL: sessionTTL}
}

// SessionTTL is the lifetime of issued session cookies
func (s *IdentityService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// SignIn verifies an e-mail and password and returns a session cookie for them
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (string, *navigation.Session, error) {
	if s.signer == nil {
		return "", nil, errors.New("password sign-in is not configured")
	}
	idToken, err := s.signer.SignInWithPassword(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	return s.Establish(ctx, idToken)
}

// Establish exchanges a Firebase ID token for a session cookie
func (s *IdentityService) Establish(ctx context.Context, idToken string) (string, *navigation.Session, error) {
	token, err := s.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", nil, fmt.Errorf("verify id token: %w", err)
	}

	cookie, err := s.auth.SessionCookie(ctx, idToken, s.sessionTTL)
	if err != nil {
		return "", nil, fmt.Errorf("create session cookie: %w", err)
	}
	return cookie, SessionFromToken(token), nil
}

// Register creates the account and its companion profile, then signs it in
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (string, *navigation.Session, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name)

	user, err := s.auth.CreateUser(ctx, params)
	if err != nil {
		return "", nil, mapRegisterError(err)
	}

	profile := models.Companion{Email: email, Name: name, Rating: 0.0}
	if err := s.docs.Set(ctx, models.CollectionUsers, user.UID, profile.ToMap()); err != nil {
		return "", nil, fmt.Errorf("save profile: %w", err)
	}

	return s.SignIn(ctx, email, password)
}

func mapRegisterError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return ErrEmailTaken
	case strings.Contains(err.Error(), "malformed email"):
		return ErrInvalidEmail
	default:
		return err
	}
}

// Session verifies a session cookie, including revocation
func (s *IdentityService) Session(ctx context.Context, cookie string) (*navigation.Session, error) {
	token, err := s.auth.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return nil, err
	}
	return SessionFromToken(token), nil
}

// Reload reads the account again, e.g. after the e-mail link was followed
func (s *IdentityService) Reload(ctx context.Context, uid string) (*navigation.Session, error) {
	user, err := s.auth.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, err)
	}
	return SessionFromUser(user), nil
}

// VerificationLink generates the e-mail verification link for email
func (s *IdentityService) VerificationLink(ctx context.Context, email string) (string, error) {
	return s.auth.EmailVerificationLink(ctx, email)
}

// Revoke invalidates every session cookie of the signed-in user
func (s *IdentityService) Revoke(ctx context.Context, session *navigation.Session) error {
	if err := s.auth.RevokeRefreshTokens(ctx, session.UID); err != nil {
		return fmt.Errorf("revoke tokens for %s: %w", session.UID, err)
	}
	return nil
}

// SessionFromToken reads the standard Firebase claims
func SessionFromToken(token *auth.Token) *navigation.Session {
	s := &navigation.Session{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		s.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		s.DisplayName = name
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		s.EmailVerified = verified
	}
	return s
}

func SessionFromUser(user *auth.UserRecord) *navigation.Session {
	s := &navigation.Session{EmailVerified: user.EmailVerified}
	if user.UserInfo != nil {
		s.UID = user.UID
		s.Email = user.Email
		s.DisplayName = user.DisplayName
	}
	return s
}

// AuthorName is the e-mail local part shown on comments
func AuthorName(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	if email != "" {
		return email
	}
	return "Anonymous"
}
