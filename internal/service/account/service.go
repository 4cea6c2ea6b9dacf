package account

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup, login and profile flows.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	tokenRepo   tokenrepo.Repository
	validate    *validator.Validate
	logger      zerolog.Logger
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		tokenRepo:   tokens,
		validate:    newValidator(),
		logger:      logger.With().Str("service", "account").Logger(),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
	}
}

// AddressInput mirrors incoming address payloads.
type AddressInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Pincode      string `json:"pincode" validate:"required"`
	IsDefault    bool   `json:"isDefault"`
}

type SignupInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}

type ProfileInput struct {
	FirstName   string         `json:"firstName" validate:"max=60"`
	LastName    string         `json:"lastName" validate:"max=60"`
	Phone       string         `json:"phone" validate:"omitempty,max=20"`
	DateOfBirth string         `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Addresses   []AddressInput `json:"addresses" validate:"dive"`
}

// Signup registers a customer account. Elevated roles are only created by tooling.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return nil, domain.NewValidationError("email", "valid email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, domain.NewValidationError("password", err.Error())
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, domain.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(in.Name),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", u.ID).Msg("account created")
	return u, nil
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, kindAccess, s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, kindRefresh, s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.User, string, error) {
	userID, ok := s.tokens.Validate(ctx, refreshToken, kindRefresh)
	if !ok {
		return nil, "", ErrInvalidToken
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	access, err := s.tokens.Issue(ctx, u.ID, kindAccess, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, access, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token, kindAccess)
	if !ok {
		return nil, ErrInvalidToken
	}
	return s.user(ctx, userID)
}

// Logout revokes the given access and refresh tokens of userID.
func (s *Service) Logout(ctx context.Context, userID string, tokens ...string) error {
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if err := s.tokens.Revoke(ctx, userID, t); err != nil {
			return err
		}
	}
	s.logger.Info().Str("user_id", userID).Msg("logged out")
	return nil
}

// UpdateProfile replaces the profile fields and saved addresses of a user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, profileError(err)
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	u.Phone = strings.TrimSpace(in.Phone)
	u.DateOfBirth = strings.TrimSpace(in.DateOfBirth)

	addresses := make([]domain.Address, 0, len(in.Addresses))
	hasDefault := false
	for _, a := range in.Addresses {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		isDefault := a.IsDefault && !hasDefault
		hasDefault = hasDefault || isDefault
		addresses = append(addresses, domain.Address{
			ID:           "addr-" + id.String(),
			Name:         strings.TrimSpace(a.Name),
			Phone:        strings.TrimSpace(a.Phone),
			AddressLine1: strings.TrimSpace(a.AddressLine1),
			AddressLine2: strings.TrimSpace(a.AddressLine2),
			City:         strings.TrimSpace(a.City),
			State:        strings.TrimSpace(a.State),
			Pincode:      strings.TrimSpace(a.Pincode),
			IsDefault:    isDefault,
		})
	}
	if !hasDefault && len(addresses) > 0 {
		addresses[0].IsDefault = true
	}
	u.Addresses = addresses
	return s.repo.UpdateProfile(ctx, *u)
}

// PurgeExpiredTokens removes every token whose lifetime has ended.
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokenRepo.DeleteExpired(ctx, s.tokens.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug().Int64("count", n).Msg("expired tokens purged")
	}
	return n, nil
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func (s *Service) user(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func profileError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewValidationError(fe.Field(), fmt.Sprintf("failed %s check", fe.Tag()))
	}
	return domain.NewValidationError("", err.Error())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
