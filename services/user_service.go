package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type GoogleProfile struct {
	Email string
	Name  string
}

// GoogleVerifier checks a Google ID token and returns its owner.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

type UserService struct {
	users  repositories.UserRepository
	tokens *TokenManager
	google GoogleVerifier
	admins map[string]bool
	logger zerolog.Logger
}

func NewUserService(users repositories.UserRepository, tokens *TokenManager, google GoogleVerifier, logger zerolog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, google: google, admins: map[string]bool{}, logger: logger}
}

// WithAdmins grants the admin role to accounts with these emails, both when
// they are created and on every sign-in.
func (s *UserService) WithAdmins(emails []string) *UserService {
	for _, email := range emails {
		if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
			s.admins[email] = true
		}
	}
	return s
}

func (s *UserService) role(user *models.User) string {
	if s.admins[strings.ToLower(user.Email)] {
		return models.RoleAdmin
	}
	if user.Role == "" {
		return models.RoleUser
	}
	return user.Role
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegex.MatchString(email) {
		return "", ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < 8 {
		return "", ErrWeakPassword
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", ErrUserExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return "", fmt.Errorf("check user existence: %w", err)
	}

	user, err := s.create(ctx, strings.TrimSpace(name), email, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Id.Hex(), s.role(user))
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.Id.Hex(), s.role(user))
}

// GoogleLogin signs in the owner of idToken, creating the account with a
// random password the first time.
func (s *UserService) GoogleLogin(ctx context.Context, idToken string) (string, error) {
	profile, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}
	email := strings.ToLower(profile.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		password, genErr := randomPassword()
		if genErr != nil {
			return "", genErr
		}
		user, err = s.create(ctx, profile.Name, email, password)
	}
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Id.Hex(), s.role(user))
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) create(ctx context.Context, name, email, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		CartData: models.CartData{},
	}
	user.Role = s.role(user)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.logger.Info().Str("user_id", user.Id.Hex()).Msg("user registered")
	return user, nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GoogleTokenInfo validates ID tokens against Google's tokeninfo endpoint.
type GoogleTokenInfo struct {
	Endpoint string
	Client   *http.Client
}

func NewGoogleTokenInfo(endpoint string) *GoogleTokenInfo {
	return &GoogleTokenInfo{Endpoint: endpoint, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (g *GoogleTokenInfo) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	if idToken == "" {
		return nil, errors.New("empty google token")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid Google token")
	}

	var data struct {
		Email         string `json:"email"`
		Name          string `json:"name"`
		EmailVerified string `json:"email_verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Email == "" {
		return nil, errors.New("missing email")
	}
	if data.EmailVerified == "false" {
		return nil, errors.New("google email not verified")
	}
	return &GoogleProfile{Email: data.Email, Name: data.Name}, nil
}
