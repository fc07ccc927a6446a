package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-staffhub/internal/auth/errors"
	"go-staffhub/internal/employee"
	employeeerrors "go-staffhub/internal/employee/errors"
	"go-staffhub/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// Directory is the part of the employee directory login needs.
type Directory interface {
	LookupByUserID(ctx context.Context, userID string) (employee.EmployeeResponse, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResponse, error)
	Me(ctx context.Context, userID string) (MeResponse, error)
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
}

type service struct {
	repo      Repository
	directory Directory
	secret    []byte
	tokenTTL  time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, directory Directory, secret string, tokenTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:      repo,
		directory: directory,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResponse{}, autherrors.ErrCredentialsRequired
	}
	s.logger.Debug("login attempt", zap.String("email", email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Info("login failed: unknown email", zap.String("email", email))
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login user lookup failed", zap.Error(err))
		return LoginResponse{}, apperror.FromStore(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login failed: password mismatch", zap.String("user_id", user.ID.String()))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	empl, err := s.directory.LookupByUserID(ctx, user.ID.String())
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			s.logger.Warn("login denied: no employee record", zap.String("user_id", user.ID.String()))
			return LoginResponse{}, autherrors.ErrNotAnEmployee
		}
		return LoginResponse{}, err
	}
	if !empl.IsActive {
		s.logger.Warn("login denied: inactive employee", zap.String("employee_id", empl.ID))
		return LoginResponse{}, autherrors.ErrAccountInactive
	}

	token, err := s.generateToken(user.ID.String(), empl.ID, empl.Role)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return LoginResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login authorized", zap.String("employee_id", empl.ID))
	return LoginResponse{Token: token, Employee: toView(empl)}, nil
}

func (s *service) Me(ctx context.Context, userID string) (MeResponse, error) {
	empl, err := s.directory.LookupByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			return MeResponse{}, autherrors.ErrUserNotFound
		}
		return MeResponse{}, err
	}
	return MeResponse{Employee: toView(empl)}, nil
}

// Register stores a credential record. It is used by the admin CLI.
func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return UserResponse{}, autherrors.ErrCredentialsRequired
	}
	if len(req.Password) < minPasswordLength {
		return UserResponse{}, autherrors.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	user := &User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if apperror.IsUniqueViolation(err, "uq_user_email") {
			return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("register user failed", zap.Error(err))
		return UserResponse{}, apperror.FromStore(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return UserResponse{ID: user.ID.String(), Email: user.Email}, nil
}

func (s *service) generateToken(userID, employeeID, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        role,
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func toView(e employee.EmployeeResponse) EmployeeView {
	return EmployeeView{
		ID:       e.ID,
		UserID:   e.UserID,
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
	}
}
