package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/maintdesk/maintdesk/internal/metrics"
	"github.com/maintdesk/maintdesk/internal/models"
	"github.com/maintdesk/maintdesk/pkg/apperr"
	"github.com/maintdesk/maintdesk/pkg/db"
	"github.com/maintdesk/maintdesk/pkg/env"
	"github.com/maintdesk/maintdesk/pkg/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Auth issues and validates signed session tokens. It is the only
// writer of users.last_login.
type Auth interface {
	WithDatabase(*gorm.DB) Auth
	Login(*LoginRequest) (*LoginResponse, error)
	Validate(token string) (*Session, error)
}

// Session is the decoded caller identity handed to the route
// layer.
type Session struct {
	UserID   uuid.UUID   `json:"user_id"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

type authService struct {
	ctx context.Context
	db  *gorm.DB
}

func Service(ctx context.Context) Auth {
	return &authService{
		ctx: ctx,
		db:  db.Connection(),
	}
}

func (a *authService) WithDatabase(conn *gorm.DB) Auth {
	a.db = conn
	return a
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type claims struct {
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"is_active"`
	jwt.RegisteredClaims
}

var errInvalidCredentials = apperr.New(apperr.Unauthorized, "invalid email or password")

// Login verifies the credentials, stamps last_login, and issues a
// signed token. Unknown emails, wrong passwords, and deactivated
// accounts all fail identically so the response does not reveal
// which accounts exist.
func (a *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user models.User

	// emails are stored lowercased; match that on lookup
	email := strings.ToLower(strings.TrimSpace(req.Email))

	err := a.db.WithContext(a.ctx).First(&user, "email = ?", email).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, errInvalidCredentials
	case err != nil:
		return nil, apperr.Wrap(err, apperr.Internal, "database failure")
	case !user.IsActive:
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, errInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, errInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	now := time.Now().UTC()
	expiresAt := now.Add(env.Variables().TokenTTL)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString([]byte(env.Variables().JWTSecret))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "token signing failure")
	}

	// best effort; a failed stamp must not fail the login
	if err := a.db.WithContext(a.ctx).
		Model(&user).
		Update("last_login", now).Error; err != nil {
		log.Error("failed to record last login", "error", err, "user_id", user.ID)
	}

	user.LastLogin = &now

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &user,
	}, nil
}

// Validate parses and verifies a token, returning the session it
// encodes.
func (a *authService) Validate(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperr.New(apperr.Unauthorized, "unexpected signing method")
			}
			return []byte(env.Variables().JWTSecret), nil
		},
	)
	if err != nil || !parsed.Valid {
		return nil, apperr.New(apperr.Unauthorized, "invalid or expired token")
	}

	decoded, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, apperr.New(apperr.Unauthorized, "invalid or expired token")
	}

	userID, err := uuid.Parse(decoded.Subject)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid or expired token")
	}

	return &Session{
		UserID:   userID,
		Email:    decoded.Email,
		Role:     decoded.Role,
		IsActive: decoded.IsActive,
	}, nil
}
