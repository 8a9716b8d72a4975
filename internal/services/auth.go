package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserStore is the slice of the persistence gateway the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
}

type AuthService struct {
	users     UserStore
	tokens    *utils.TokenCodec
	cost      int
	dummyHash string
}

func NewAuthService(users UserStore, tokens *utils.TokenCodec, bcryptCost int) (*AuthService, error) {
	// Compared against when the email is unknown so both login failures cost
	// one bcrypt comparison.
	dummy, err := utils.HashPassword("docbid-no-such-user", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{users: users, tokens: tokens, cost: bcryptCost, dummyHash: dummy}, nil
}

type SignUpInput struct {
	Email     string
	Password  string
	UserName  string
	FirstName string
	LastName  string
	Address   string
	Bio       string
	Phone     string
	Avatar    string
	IsDoctor  bool
}

// SignUp stores a new user with a hashed password and issues a token for it.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, string, error) {
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:     normalizeEmail(in.Email),
		Password:  hash,
		UserName:  in.UserName,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Address:   in.Address,
		Bio:       in.Bio,
		Phone:     in.Phone,
		Avatar:    in.Avatar,
		IsDoctor:  in.IsDoctor,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	log.Printf("SignUp: user %d registered (doctor=%t)", user.ID, user.IsDoctor)
	return user, token, nil
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.UserByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.CheckPasswordHash(password, s.dummyHash)
		return nil, "", ErrInvalidCredentials
	case err != nil:
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Validate resolves a token to the user it was issued for.
func (s *AuthService) Validate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.UserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
