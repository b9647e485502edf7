package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-course-platform/internal/mail"
	"go-course-platform/internal/model"
	"go-course-platform/internal/token"
	"go-course-platform/pkg/apierror"
)

type ActivationConfig struct {
	Secret string
	TTL    time.Duration
}

type AuthService struct {
	users      userStore
	sessions   *SessionService
	tokens     *token.Service
	mailer     ActivationMailer
	activation ActivationConfig
}

func NewAuthService(users userStore, sessions *SessionService, tokens *token.Service, mailer ActivationMailer, activation ActivationConfig) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		mailer:     mailer,
		activation: activation,
	}
}

// Register starts a registration: nothing is stored, the pending account
// travels sealed inside the returned activation token and the code goes by
// mail.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apierror.Validation("Email already exist")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	code, err := activationCode()
	if err != nil {
		return "", err
	}

	payload := token.ActivationPayload{
		User: model.PendingUser{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hash),
			Avatar:       strings.TrimSpace(req.Avatar),
		},
		ActivationCode: code,
	}

	activationToken, err := s.tokens.IssueActivation(payload, s.activation.Secret, s.activation.TTL)
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendActivation(ctx, email, mail.Activation{Name: payload.User.Name, Code: code}); err != nil {
		return "", apierror.Upstream("Failed to send activation email", err)
	}

	return activationToken, nil
}

// Activate checks the code against the token and creates the verified user.
func (s *AuthService) Activate(ctx context.Context, req model.ActivationRequest) (model.User, error) {
	pending, err := s.tokens.VerifyActivation(req.ActivationToken, s.activation.Secret)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return model.User{}, apierror.Validation("Activation token has expired")
		}
		return model.User{}, apierror.Validation("Invalid activation token")
	}

	if subtle.ConstantTimeCompare([]byte(pending.ActivationCode), []byte(strings.TrimSpace(req.ActivationCode))) != 1 {
		return model.User{}, apierror.Validation("Invalid activation code")
	}

	exists, err := s.users.ExistsByEmail(ctx, pending.User.Email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, apierror.Validation("Email already exist")
	}

	user := model.User{
		Name:     pending.User.Name,
		Email:    pending.User.Email,
		Password: pending.User.PasswordHash,
		Avatar:   externalImage(pending.User.Avatar),
		Role:     model.RoleStudent,
		Verified: true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return model.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Session{}, errInvalidLogin()
	}
	if err != nil {
		return model.Session{}, err
	}

	if user.Password == "" {
		return model.Session{}, errInvalidLogin()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.Session{}, errInvalidLogin()
	}

	return s.sessions.Establish(ctx, user)
}

// SocialAuth signs in the user with the given email, creating a verified
// password-less account on first use.
func (s *AuthService) SocialAuth(ctx context.Context, req model.SocialAuthRequest) (model.Session, error) {
	email := normalizeEmail(req.Email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		user = model.User{
			Name:     strings.TrimSpace(req.Name),
			Email:    email,
			Avatar:   externalImage(req.Avatar),
			Role:     model.RoleStudent,
			Verified: true,
		}
		err = s.users.Create(ctx, &user)
	}
	if err != nil {
		return model.Session{}, err
	}

	return s.sessions.Establish(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Terminate(ctx, userID)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.Session, error) {
	return s.sessions.Refresh(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	user.Password = ""
	return user, nil
}

func errInvalidLogin() error {
	return apierror.Validation("Invalid email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// externalImage wraps an avatar URL hosted elsewhere. Its public id is the
// URL itself, so it is never deleted from the media store.
func externalImage(url string) *model.Image {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &model.Image{PublicID: url, URL: url}
}

func isExternalImage(img *model.Image) bool {
	return img != nil && img.PublicID == img.URL
}

// activationCode returns a uniformly random code in 1000..9999.
func activationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate activation code: %w", err)
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}
