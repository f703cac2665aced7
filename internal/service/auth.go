package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/ratelimit"
	"unistay-backend/internal/repository"
	"unistay-backend/internal/security"
)

const maxUsernameLength = 150

var errInvalidCredentials = domain.NewValidationError("Invalid username or password.")

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
	revoker  security.TokenRevoker
	limiter  ratelimit.Limiter
	now      func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens security.TokenManager,
	revoker security.TokenRevoker,
	limiter ratelimit.Limiter,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		revoker:  revoker,
		limiter:  limiter,
		now:      time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, role domain.Role, in domain.SignupInput) (*domain.User, error) {
	logger.EnterMethod("authService.Signup", "username", in.Username, "role", role)

	if role != domain.RoleStudent && role != domain.RoleOwner {
		return nil, domain.ErrForbidden
	}
	user, err := s.newUser(role, in)
	if err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "username", in.Username)
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		logger.ExitMethodWithError("authService.Signup", err, "username", in.Username)
		return nil, err
	}

	logger.ExitMethod("authService.Signup", "userID", user.ID)
	return user, nil
}

// CreateSuperuser registers an admin account with superuser rights.
func (s *authService) CreateSuperuser(ctx context.Context, in domain.SignupInput) (*domain.User, error) {
	user, err := s.newUser(domain.RoleAdmin, in)
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = true
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Info("Superuser created", "userID", user.ID, "username", user.Username)
	return user, nil
}

func (s *authService) newUser(role domain.Role, in domain.SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateSignup(role, in); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         role,
	}
	if role == domain.RoleStudent {
		user.Course = in.Course
		user.Gender = in.Gender
	}
	return user, nil
}

func validateSignup(role domain.Role, in domain.SignupInput) error {
	v := &domain.ValidationError{}
	switch {
	case in.Username == "":
		v.Add("username", "this field is required")
	case len(in.Username) > maxUsernameLength || !validUsername(in.Username):
		v.Add("username", "use 150 characters or fewer: letters, digits and @/./+/-/_ only")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		v.Add("email", "enter a valid email address")
	}
	if len(in.Password) < security.MinPasswordLength {
		v.Add("password", security.ErrPasswordTooShort.Error())
	}
	if in.Password != in.PasswordConfirm {
		v.Add("password_confirm", "the two password fields didn't match")
	}
	if role == domain.RoleStudent {
		if !domain.ValidCourse(in.Course) {
			v.Add("course", "select a valid course")
		}
		if !in.Gender.Valid() {
			v.Add("gender", "select a valid gender")
		}
	}
	return v.OrNil()
}

func validUsername(name string) bool {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return false
	}
	return true
}

func (s *authService) Login(ctx context.Context, clientKey, username, password string) (string, *domain.User, error) {
	logger.EnterMethod("authService.Login", "username", username)

	if !s.limiter.Allow(ctx, "login:"+clientKey) {
		err := domain.NewValidationError("Too many login attempts. Please try again later.")
		logger.ExitMethodWithError("authService.Login", err, "username", username)
		return "", nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = errInvalidCredentials
		}
		logger.ExitMethodWithError("authService.Login", err, "username", username)
		return "", nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.ExitMethodWithError("authService.Login", errInvalidCredentials, "username", username)
		return "", nil, errInvalidCredentials
	}

	token, _, err := s.tokens.GenerateSessionToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	logger.ExitMethod("authService.Login", "userID", user.ID)
	return token, user, nil
}

// Logout revokes the session until it would have expired anyway. Invalid tokens are ignored.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	logger.Info("User logged out", "userID", claims.UserID)
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (domain.Caller, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return domain.Caller{}, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.Caller{}, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return domain.Caller{}, security.ErrRevokedToken
	}
	return claims.Caller()
}
