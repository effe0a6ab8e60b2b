package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alphabot-ai/murmur/internal/apperr"
	"github.com/alphabot-ai/murmur/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = apperr.New(apperr.ErrUnauthenticated, "invalid or expired token")
	ErrMissingToken     = apperr.New(apperr.ErrUnauthenticated, "missing bearer token")
	ErrChallengeInvalid = apperr.New(apperr.ErrUnauthenticated, "unknown or expired challenge")
)

// Identity is the caller resolved from a verified claim.
type Identity struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// HasRole reports whether the identity carries the required role. The role
// is whatever the claim said when it was issued.
func (id Identity) HasRole(required model.Role) bool {
	return id.Role == required
}

func (id Identity) IsAdmin() bool { return id.HasRole(model.RoleAdmin) }

// Claims is the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service struct {
	secret       []byte
	tokenTTL     time.Duration
	challengeTTL time.Duration
	now          func() time.Time

	mu         sync.Mutex
	challenges map[string]model.Challenge
}

func NewService(secret []byte, tokenTTL, challengeTTL time.Duration) *Service {
	return &Service{
		secret:       secret,
		tokenTTL:     tokenTTL,
		challengeTTL: challengeTTL,
		now:          time.Now,
		challenges:   make(map[string]model.Challenge),
	}
}

// IssueToken signs a claim for id valid for the configured TTL.
func (s *Service) IssueToken(id Identity) (Token, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: id.Email,
		Role:  id.Role,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Token: signed, ExpiresAt: exp}, nil
}

// Authenticate verifies a bearer claim and returns the identity it names.
func (s *Service) Authenticate(bearer string) (Identity, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" {
		return Identity{}, ErrMissingToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(bearer, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Email: claims.Email, Role: claims.Role}, nil
}

// CreateChallenge hands out a random single-use string to be signed with
// a key of the given algorithm.
func (s *Service) CreateChallenge(alg string) (model.Challenge, error) {
	alg = strings.ToLower(strings.TrimSpace(alg))
	if !SupportedAlg(alg) {
		return model.Challenge{}, apperr.Invalid(fmt.Sprintf("unsupported alg: %s", alg))
	}
	value, err := randomToken(32)
	if err != nil {
		return model.Challenge{}, err
	}
	c := model.Challenge{
		Challenge: value,
		Alg:       alg,
		ExpiresAt: s.now().Add(s.challengeTTL),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.challenges[value] = c
	return c, nil
}

// ConsumeChallenge removes the challenge and checks it is unexpired and was
// issued for alg.
func (s *Service) ConsumeChallenge(challenge, alg string) error {
	s.mu.Lock()
	c, ok := s.challenges[challenge]
	delete(s.challenges, challenge)
	s.mu.Unlock()

	if !ok || s.now().After(c.ExpiresAt) {
		return ErrChallengeInvalid
	}
	if c.Alg != strings.ToLower(alg) {
		return apperr.New(apperr.ErrUnauthenticated, "challenge alg mismatch")
	}
	return nil
}

func (s *Service) pruneLocked() {
	now := s.now()
	for k, c := range s.challenges {
		if now.After(c.ExpiresAt) {
			delete(s.challenges, k)
		}
	}
}

func randomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

