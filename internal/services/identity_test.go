package services

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeylink_app/internal/models"
	"journeylink_app/internal/navigation"
)

type fakeAuth struct {
	tokens   map[string]*auth.Token
	cookies  map[string]*auth.Token
	users    map[string]*auth.UserRecord
	revoked  []string
	createFn func(*auth.UserToCreate) (*auth.UserRecord, error)
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		tokens:  make(map[string]*auth.Token),
		cookies: make(map[string]*auth.Token),
		users:   make(map[string]*auth.UserRecord),
	}
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid id token")
}

func (f *fakeAuth) SessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	tok, ok := f.tokens[idToken]
	if !ok {
		return "", errors.New("invalid id token")
	}
	cookie := "cookie-" + tok.UID
	f.cookies[cookie] = tok
	return cookie, nil
}

func (f *fakeAuth) VerifySessionCookieAndCheckRevoked(_ context.Context, cookie string) (*auth.Token, error) {
	tok, ok := f.cookies[cookie]
	if !ok {
		return nil, errors.New("session cookie revoked")
	}
	return tok, nil
}

func (f *fakeAuth) CreateUser(_ context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	return f.createFn(user)
}

func (f *fakeAuth) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	if u, ok := f.users[uid]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (f *fakeAuth) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	for cookie, tok := range f.cookies {
		if tok.UID == uid {
			delete(f.cookies, cookie)
		}
	}
	return nil
}

func (f *fakeAuth) EmailVerificationLink(_ context.Context, email string) (string, error) {
	return "https://example.com/verify?email=" + email, nil
}

type fakeSigner map[string]string

func (f fakeSigner) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	if tok, ok := f[email+":"+password]; ok {
		return tok, nil
	}
	return "", ErrInvalidCredentials
}

func anaToken() *auth.Token {
	return &auth.Token{UID: "u1", Claims: map[string]any{
		"email":          "ana@example.com",
		"name":           "Ana",
		"email_verified": true,
	}}
}

func TestIdentitySignInAndSession(t *testing.T) {
	ctx := context.Background()
	fa := newFakeAuth()
	fa.tokens["id-ana"] = anaToken()
	svc := NewIdentityService(fa, fakeSigner{"ana@example.com:secret1": "id-ana"}, NewMemoryStore(), time.Hour)

	cookie, session, err := svc.SignIn(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "cookie-u1", cookie)
	assert.Equal(t, &navigation.Session{UID: "u1", Email: "ana@example.com", DisplayName: "Ana", EmailVerified: true}, session)

	verified, err := svc.Session(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, "u1", verified.UID)

	_, _, err = svc.SignIn(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Revoke(ctx, session))
	assert.Equal(t, []string{"u1"}, fa.revoked)
	_, err = svc.Session(ctx, cookie)
	assert.Error(t, err)
}

func TestIdentityRegisterWritesProfile(t *testing.T) {
	ctx := context.Background()
	fa := newFakeAuth()
	fa.tokens["id-new"] = &auth.Token{UID: "new-uid", Claims: map[string]any{"email": "luis@example.com"}}
	fa.createFn = func(*auth.UserToCreate) (*auth.UserRecord, error) {
		return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "new-uid", Email: "luis@example.com"}}, nil
	}
	docs := NewMemoryStore()
	svc := NewIdentityService(fa, fakeSigner{"luis@example.com:secret1": "id-new"}, docs, time.Hour)

	_, session, err := svc.Register(ctx, "Luis", "luis@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "new-uid", session.UID)

	doc, err := docs.Get(ctx, models.CollectionUsers, "new-uid")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "luis@example.com", "name": "Luis", "rating": 0.0}, doc.Data)
}

func TestIdentityRegisterErrors(t *testing.T) {
	fa := newFakeAuth()
	fa.createFn = func(*auth.UserToCreate) (*auth.UserRecord, error) {
		return nil, errors.New(`malformed email string: "luis"`)
	}
	svc := NewIdentityService(fa, fakeSigner{}, NewMemoryStore(), time.Hour)

	_, _, err := svc.Register(context.Background(), "Luis", "luis", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestIdentityReload(t *testing.T) {
	fa := newFakeAuth()
	fa.users["u1"] = &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "u1", Email: "ana@example.com"}, EmailVerified: true}
	svc := NewIdentityService(fa, nil, NewMemoryStore(), time.Hour)

	s, err := svc.Reload(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, s.EmailVerified)

	_, _, err = svc.SignIn(context.Background(), "ana@example.com", "x")
	assert.Error(t, err)
}

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "ana.garcia", AuthorName("ana.garcia@example.com"))
	assert.Equal(t, "Anonymous", AuthorName(""))
	assert.Equal(t, "@odd", AuthorName("@odd"))
}

func TestEmailServiceSend(t *testing.T) {
	var sent struct {
		addr string
		to   []string
		msg  string
	}
	s := &EmailService{
		host: "smtp.example.com", port: "587", user: "bot", password: "pw", from: "JourneyLink <bot@example.com>",
		send: func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
			sent.addr, sent.to, sent.msg = addr, to, string(msg)
			return nil
		},
	}

	require.NoError(t, s.SendVerification("ana@example.com", "https://example.com/v"))
	assert.Equal(t, "smtp.example.com:587", sent.addr)
	assert.Equal(t, []string{"ana@example.com"}, sent.to)
	assert.True(t, strings.HasPrefix(sent.msg, "From: JourneyLink <bot@example.com>\r\nTo: ana@example.com\r\n"))
	assert.Contains(t, sent.msg, "https://example.com/v")

	assert.ErrorIs(t, (&EmailService{}).SendEmail([]string{"x@example.com"}, "s", "b"), ErrEmailNotConfigured)
}
