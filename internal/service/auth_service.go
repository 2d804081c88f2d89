package service

import (
	"context"
	"errors"
	"strings"

	"studyboard/internal/domain"
	"studyboard/internal/logger"
	"studyboard/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrMissingFields      = errors.New("email and password are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token revoked")
)

// UserStore persists accounts. Implemented by repository.UserRepository and
// repository.MemoryUserRepository.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Session is an authenticated principal with its bearer token.
type Session struct {
	User   *domain.User
	Token  string
	Claims Claims
}

// AuthService registers accounts and issues and revokes session tokens.
type AuthService struct {
	users   UserStore
	revoker TokenRevoker
	audit   *AuditService
	cost    int
}

func NewAuthService(users UserStore, revoker TokenRevoker, audit *AuditService) *AuthService {
	return &AuthService{
		users:   users,
		revoker: revoker,
		audit:   audit,
		cost:    bcrypt.DefaultCost,
	}
}

// NewAuthServiceWithCost is NewAuthService with a custom bcrypt cost.
func NewAuthServiceWithCost(users UserStore, revoker TokenRevoker, audit *AuditService, cost int) *AuthService {
	s := NewAuthService(users, revoker, audit)
	s.cost = cost
	return s
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password, confirm string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" || confirm == "" {
		return nil, ErrMissingFields
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	sess, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, user.ID, domain.AuditActionRegister, domain.AuditCategoryAuth, nil)
	return sess, nil
}

// Login checks the credentials and issues a new token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, user.ID, domain.AuditActionLogin, domain.AuditCategoryAuth, nil)
	return sess, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims Claims) error {
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return err
	}
	s.audit.Log(ctx, claims.UserID, domain.AuditActionLogout, domain.AuditCategoryAuth, nil)
	return nil
}

// Authenticate parses a bearer token and rejects revoked ones. When the
// revocation store is unreachable the token is accepted.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Claims, error) {
	claims, err := ParseJWT(token)
	if err != nil {
		return Claims{}, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		logger.Warn("revocation check failed", "error", err, "user_id", claims.UserID)
		return claims, nil
	}
	if revoked {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, claims, err := GenerateJWT(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, Claims: claims}, nil
}
