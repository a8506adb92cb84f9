package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// RememberMeFactor stretches the access token lifetime for "remember me" logins.
const RememberMeFactor = 7

const TokenTypeBearer = "Bearer"

type UserFinder interface {
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         UserSummary `json:"user"`
}

type AuthService struct {
	Users      UserFinder
	Tokens     TokenIssuer
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthService(users UserFinder, tokens TokenIssuer, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

// dummyHash keeps the unknown-email path doing the same bcrypt work as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func (s *AuthService) Authenticate(ctx context.Context, email, password string, rememberMe bool) (*AuthResult, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrBadCreds
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}

	ttl := s.AccessTTL
	if rememberMe {
		ttl *= RememberMeFactor
	}
	access, err := s.Tokens.Issue(u.Email, ttl)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.Tokens.Issue(u.Email, s.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}
	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(ttl / time.Second),
		User:         summarize(u),
	}, nil
}

// CurrentUser resolves a verified token subject. A subject whose user no longer
// exists is treated as bad credentials.
func (s *AuthService) CurrentUser(ctx context.Context, subject string) (*UserSummary, error) {
	u, err := s.Users.ByEmail(ctx, subject)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCreds
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	sum := summarize(u)
	return &sum, nil
}

func summarize(u *domain.User) UserSummary {
	return UserSummary{ID: strconv.FormatInt(u.ID, 10), Name: u.Name, Email: u.Email}
}
