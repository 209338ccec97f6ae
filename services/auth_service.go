package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/opencourt/tennis-tour/utils"
)

// AuthService issues service tokens for the administrative surface
// (draw trigger, CRUD writes). There is a single master identity.
type AuthService interface {
	Login(ctx context.Context, login, password string) (string, error)
}

type authService struct {
	masterLogin        string
	masterPasswordHash string
	jwtSecret          []byte
	tokenValidity      time.Duration
}

func NewAuthService(masterLogin, masterPasswordHash string, jwtSecret []byte, tokenValidity time.Duration) AuthService {
	return &authService{
		masterLogin:        masterLogin,
		masterPasswordHash: masterPasswordHash,
		jwtSecret:          jwtSecret,
		tokenValidity:      tokenValidity,
	}
}

func (s *authService) Login(_ context.Context, login, password string) (string, error) {
	if login != s.masterLogin || !utils.CheckPasswordHash(password, s.masterPasswordHash) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"login": login,
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenValidity).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
