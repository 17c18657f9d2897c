package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// ErrInvalidCredentials is returned for a wrong e-mail/password pair
var ErrInvalidCredentials = errors.New("invalid email or password")

// PasswordSigner exchanges an e-mail and password for a Firebase ID token
type PasswordSigner interface {
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
}

// IdentityToolkitSigner signs in through the Identity Toolkit REST API with the web API key
type IdentityToolkitSigner struct {
	svc *identitytoolkit.Service
}

func NewIdentityToolkitSigner(ctx context.Context, apiKey string) (*IdentityToolkitSigner, error) {
	if apiKey == "" {
		return nil, errors.New("FIREBASE_API_KEY is not set")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: %w", err)
	}
	return &IdentityToolkitSigner{svc: svc}, nil
}

func (s *IdentityToolkitSigner) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	resp, err := s.svc.Relyingparty.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		return "", mapSignInError(err)
	}
	return resp.IdToken, nil
}

func mapSignInError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusBadRequest {
		return fmt.Errorf("sign in: %w", err)
	}

	for _, reason := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED"} {
		if strings.Contains(gerr.Message, reason) {
			return ErrInvalidCredentials
		}
	}
	return fmt.Errorf("sign in: %s", gerr.Message)
}
