package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// LoginDTO is returned to clients that obtained a token.
type LoginDTO struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Identity is the payload a verified token carries.
type Identity struct {
	Username string
	Role     string
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	tokenTTL = time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrReservedNickname   = errors.New("nickname reserved for the administrator")
	ErrNicknameTooShort   = errors.New("nickname must be at least 3 characters")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type IAuthService interface {
	Login(username, password string) (*LoginDTO, error)
	LoginGuest(username string) (*LoginDTO, error)
	VerifyToken(token string) (*Identity, error)
}

// tokenClaims is the internal claims type used for JWT signing/parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

type authService struct {
	secret        []byte
	adminUsername string
	adminPassword string
	now           func() time.Time
}

func NewAuthService(secret, adminUsername, adminPassword string) IAuthService {
	return &authService{
		secret:        []byte(secret),
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		now:           time.Now,
	}
}

// Login authenticates the configured administrator account.
func (svc *authService) Login(username, password string) (*LoginDTO, error) {
	if username != svc.adminUsername || password != svc.adminPassword {
		return nil, ErrInvalidCredentials
	}
	return svc.issue(svc.adminUsername, RoleAdmin, "1")
}

// LoginGuest issues a role "user" token for an unauthenticated visitor.
// Names colliding with the administrator's are refused so a guest cannot
// impersonate them in a room's user list.
func (svc *authService) LoginGuest(username string) (*LoginDTO, error) {
	lower := strings.ToLower(username)
	if lower == strings.ToLower(svc.adminUsername) || lower == "admin" {
		return nil, ErrReservedNickname
	}
	if utf8.RuneCountInString(strings.TrimSpace(username)) < 3 {
		return nil, ErrNicknameTooShort
	}
	sub := fmt.Sprintf("guest_%d", svc.now().UnixMilli())
	return svc.issue(username, RoleUser, sub)
}

func (svc *authService) issue(username, role, subject string) (*LoginDTO, error) {
	now := svc.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Username: username,
		Role:     role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
	if err != nil {
		return nil, err
	}
	return &LoginDTO{AccessToken: signed, Username: username, Role: role}, nil
}

// VerifyToken is the single synchronous identity check performed at
// connection time. Any failure means the connection must be refused.
func (svc *authService) VerifyToken(token string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{},
		func(t *jwt.Token) (any, error) { return svc.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(svc.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{Username: claims.Username, Role: claims.Role}, nil
}
