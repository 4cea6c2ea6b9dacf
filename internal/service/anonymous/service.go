package anonymous

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues bearer tokens for guest sessions. Tokens live in memory only.
type Service struct {
	tokens     *tokenManager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New() *Service {
	return &Service{
		tokens:     newTokenManager(),
		accessTTL:  3 * time.Hour,
		refreshTTL: 30 * 24 * time.Hour,
	}
}

// Issue starts a guest session and returns its tokens and guest id.
func (s *Service) Issue(_ context.Context) (accessToken, refreshToken, guestID string, err error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", "", "", err
	}
	guestID = id.String()
	accessToken, err = s.tokens.Issue(guestID, kindAccess, s.accessTTL)
	if err != nil {
		return "", "", "", err
	}
	refreshToken, err = s.tokens.Issue(guestID, kindRefresh, s.refreshTTL)
	if err != nil {
		return "", "", "", err
	}
	return accessToken, refreshToken, guestID, nil
}

// Refresh issues a new access token for the guest bound to refreshToken.
func (s *Service) Refresh(_ context.Context, refreshToken string) (accessToken, guestID string, err error) {
	meta, ok := s.tokens.Validate(refreshToken, kindRefresh)
	if !ok {
		return "", "", ErrInvalidToken
	}
	accessToken, err = s.tokens.Issue(meta.GuestID, kindAccess, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	return accessToken, meta.GuestID, nil
}

func (s *Service) LookupByToken(_ context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token, kindAccess)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.GuestID, nil
}

// Logout ends the guest session by revoking its tokens.
func (s *Service) Logout(_ context.Context, guestID string, tokens ...string) error {
	for _, t := range tokens {
		if t != "" {
			s.tokens.Revoke(guestID, t)
		}
	}
	return nil
}

func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}
