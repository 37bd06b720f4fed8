package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingClaims = errors.New("token is missing session claims")
)

// Service issues and checks the tokens that admit a client to one editing
// session.
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Claims identify a participant of a session.
type Claims struct {
	UserID      string `json:"userId"`
	SessionID   string `json:"sessionId"`
	DisplayName string `json:"displayName"`
}

type Grant struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Claims
}

// IssueToken grants a new anonymous participant access to sessionID. An
// empty display name gets a generated one.
func (s *Service) IssueToken(sessionID, displayName string) (*Grant, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("issue token: %w", ErrMissingClaims)
	}
	userID := uuid.NewString()
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "guest-" + userID[:8]
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"sid":  sessionID,
		"name": displayName,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Grant{
		Token:     signed,
		ExpiresAt: time.Unix(expires.Unix(), 0),
		Claims:    Claims{UserID: userID, SessionID: sessionID, DisplayName: displayName},
	}, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["sub"].(string)
	sessionID, _ := claims["sid"].(string)
	name, _ := claims["name"].(string)
	if userID == "" || sessionID == "" {
		return nil, ErrMissingClaims
	}

	return &Claims{UserID: userID, SessionID: sessionID, DisplayName: name}, nil
}
