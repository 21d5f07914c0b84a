package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/challenge-hub/backend/internal/config"
	"github.com/challenge-hub/backend/internal/db"
	"github.com/challenge-hub/backend/internal/model"
)

const defaultCookieName = "challenge_hub_session"

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

// AuthRepository stores accounts and the sessions backing issued tokens.
type AuthRepository interface {
	UserRepository
	CreateSession(ctx context.Context, userID int64, tokenID string, expiresAt time.Time) error
	GetSessionByTokenID(ctx context.Context, tokenID string) (*model.Session, error)
	RevokeSession(ctx context.Context, tokenID string) error
}

type AuthService struct {
	repo      AuthRepository
	hasher    PasswordHasher
	jwtSecret []byte
	tokenTTL  time.Duration
	cookieCfg CookieConfig
	now       func() time.Time
}

// IssuedToken is a signed session token and its lifetime.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn int64
}

func NewAuthService(repo AuthRepository, hasher PasswordHasher, cfg config.AuthConfig) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}

	tokenTTL, err := time.ParseDuration(cfg.JWTTTL)
	if err != nil || tokenTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid JWT_TTL", ErrMisconfigured)
	}

	cookieSecure, err := parseBool(cfg.CookieSecure, true)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SECURE", ErrMisconfigured)
	}

	cookieSameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}

	if cookieSameSite == http.SameSiteNoneMode && !cookieSecure {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}

	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = defaultCookieName
	}
	cookiePath := cfg.CookiePath
	if strings.TrimSpace(cookiePath) == "" {
		cookiePath = "/"
	}

	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  tokenTTL,
		cookieCfg: CookieConfig{
			Name:     cookieName,
			Path:     cookiePath,
			Domain:   cfg.CookieDomain,
			Secure:   cookieSecure,
			SameSite: cookieSameSite,
			MaxAge:   int(tokenTTL.Seconds()),
		},
		now: time.Now,
	}, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

// Register creates an account. It does not log the account in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return createUser(ctx, s.repo, s.hasher, &req.Name, &req.Email, &req.Password)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*IssuedToken, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if db.IsNoRows(err) {
			s.hasher.burn(password)
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrUnauthorized
	}

	return s.issueToken(ctx, user)
}

// Logout revokes the session behind token. Expired or already revoked
// tokens are accepted; a token that fails signature checks is not.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseToken(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return err
	}
	return s.repo.RevokeSession(ctx, claims.ID)
}

// Authorize resolves token to its account. Every failure, including a
// revoked session or a deleted account, is ErrUnauthorized.
func (s *AuthService) Authorize(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	session, err := s.repo.GetSessionByTokenID(ctx, claims.ID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if session.RevokedAt != nil || session.UserID != userID || !s.now().Before(session.ExpiresAt) {
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) parseToken(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}

	opts = append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}, opts...)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *model.User) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}

	if err := s.repo.CreateSession(ctx, user.ID, claims.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}

	return &IssuedToken{
		Token:     signed,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

func parseBool(value string, fallback bool) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown SameSite %q", value)
	}
}
