package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

var (
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, email, passwordHash string) (*Admin, error)
}

// dummyPassword only feeds the hash compared against for unknown emails.
const dummyPassword = "portfolio-unknown-admin"

type Service struct {
	admins adminStore
	hasher *PasswordHasher
	tokens *TokenService

	dummyOnce sync.Once
	dummyHash string
}

func NewService(admins adminStore, hasher *PasswordHasher, tokens *TokenService) *Service {
	return &Service{
		admins: admins,
		hasher: hasher,
		tokens: tokens,
	}
}

// Login checks the credentials and issues a session token for the admin.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			// pay the same bcrypt cost as a wrong password so timing does not reveal known emails
			s.hasher.Verify(password, s.unknownAdminHash())
			log.Tracef("[email] failed login attempt for: %s", email)
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login, get admin: %w", err)
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		log.Tracef("[password] failed login attempt for: %s", email)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return "", fmt.Errorf("login, issue token: %w", err)
	}

	return token, nil
}

// CreateAdmin provisions a new admin. It refuses an email that is already taken.
func (s *Service) CreateAdmin(ctx context.Context, email, password string) (*Admin, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, ErrAdminExists
	} else if !errors.Is(err, ErrAdminNotFound) {
		return nil, fmt.Errorf("create admin, check existing: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.admins.Create(ctx, email, hash)
}

func (s *Service) unknownAdminHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			log.Errorf("hash dummy admin password: %s", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
