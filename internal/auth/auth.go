// Package auth registers users, checks their credentials and issues and
// resolves bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/walleta/backend/internal/models"
	"github.com/walleta/backend/internal/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", models.ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: the token is invalid or has expired", models.ErrUnauthenticated)
	ErrPasswordTooLong    = fmt.Errorf("%w: the password must not be longer than 72 bytes", models.ErrValidation)
)

// Claims are the claims of a bearer token. The subject is the user ID.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Provider issues and validates HS256 bearer tokens for users.
type Provider struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
	Cost   int              // bcrypt cost for new password hashes
	Now    func() time.Time // clock used for issuing and validating tokens
}

func NewProvider(db *gorm.DB, secret string, ttl time.Duration) *Provider {
	return &Provider{
		DB:     db,
		Secret: []byte(secret),
		TTL:    ttl,
		Cost:   bcrypt.DefaultCost,
		Now:    time.Now,
	}
}

// Register creates a new user and returns it with a token.
func (p *Provider) Register(ctx context.Context, email, password, name string) (models.User, string, error) {
	if password == "" {
		return models.User{}, "", models.ErrPasswordMissing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return models.User{}, "", ErrPasswordTooLong
	} else if err != nil {
		return models.User{}, "", fmt.Errorf("%w: failed to hash password: %w", models.ErrGeneral, err)
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}

	err = p.DB.WithContext(ctx).Create(&user).Error
	if err != nil {
		return models.User{}, "", err
	}

	token, err := p.Issue(user)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Login checks the credentials and returns the user with a new token.
//
// Unknown email addresses and wrong passwords are not distinguished.
func (p *Provider) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var users []models.User
	err := p.DB.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).Limit(1).Find(&users).Error
	if err != nil {
		return models.User{}, "", err
	}

	if len(users) == 0 {
		return models.User{}, "", ErrInvalidCredentials
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := p.Issue(user)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Issue returns a signed token for the user.
func (p *Provider) Issue(user models.User) (string, error) {
	now := p.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TTL)),
		},
	})

	signed, err := token.SignedString(p.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign token: %w", models.ErrGeneral, err)
	}

	return signed, nil
}

// Resolve validates a token and returns the user it was issued for.
func (p *Provider) Resolve(ctx context.Context, token string) (models.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(token), &claims, func(*jwt.Token) (any, error) {
		return p.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.Now), jwt.WithExpirationRequired())
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	var id uuid.UUID
	if err := id.UnmarshalParam(claims.Subject); err != nil || id == uuid.Nil {
		return models.User{}, ErrInvalidToken
	}

	var user models.User
	err = p.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, ErrInvalidToken
	} else if err != nil {
		return models.User{}, err
	}

	return user, nil
}
