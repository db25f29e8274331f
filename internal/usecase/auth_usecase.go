package usecase

import (
	"context"
	"errors"
	"strings"

	"mediconnect/internal/converter"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/domain/repository"
	"mediconnect/internal/service"
	"mediconnect/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, session entity.Session, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	log          *logrus.Logger
	userRepo     repository.UserRepository
	sessions     gateway.SessionStore
	jwtService   *jwt.JWTService
	auditService service.AuditService
}

func NewAuthUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	sessions gateway.SessionStore,
	jwtService *jwt.JWTService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		log:          log,
		userRepo:     userRepo,
		sessions:     sessions,
		jwtService:   jwtService,
		auditService: auditService,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	user, err := u.newUser(req.Email, req.Password, req.FullName, entity.RolePatient)
	if err != nil {
		return nil, err
	}

	if err := u.createUser(ctx, user); err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

// RegisterDoctor creates the account and its unverified profile together
func (u *authUsecase) RegisterDoctor(ctx context.Context, req *dto.RegisterDoctorRequest) (*dto.UserResponse, error) {
	user, err := u.newUser(req.Email, req.Password, req.FullName, entity.RoleDoctor)
	if err != nil {
		return nil, err
	}

	user.DoctorProfile = &entity.DoctorProfile{
		Specialty:       strings.TrimSpace(req.Specialty),
		City:            strings.TrimSpace(req.City),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		ExperienceYears: req.ExperienceYears,
		Biography:       req.Biography,
		Verified:        false,
	}

	if err := u.createUser(ctx, user); err != nil {
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) newUser(email, password, fullName, role string) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	return &entity.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(fullName),
		Role:     role,
		IsActive: true,
		Plan:     entity.PlanFree,
	}, nil
}

func (u *authUsecase) createUser(ctx context.Context, user *entity.User) error {
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return err
	}

	if user.DoctorProfile != nil {
		user.DoctorProfile.UserID = user.ID
	}

	_ = u.auditService.LogCreate(ctx, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	return nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return u.issueTokens(ctx, user)
}

// Logout revokes the access token of the session and, when given, the
// refresh token issued alongside it
func (u *authUsecase) Logout(ctx context.Context, session entity.Session, refreshToken string) error {
	if err := u.sessions.Revoke(ctx, gateway.TokenKindAccess, session.UserID, session.TokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != session.UserID {
		return ErrInvalidToken
	}

	if err := u.sessions.Revoke(ctx, gateway.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to revoke refresh token: %+v", err)
		return err
	}

	return nil
}

// LogoutAll revokes every access and refresh token of the user
func (u *authUsecase) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := u.sessions.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke all tokens: %+v", err)
		return err
	}
	return nil
}

// RefreshToken rotates the pair: the presented refresh token is revoked
// before the new pair is issued
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.sessions.Exists(ctx, gateway.TokenKindRefresh, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	if err := u.sessions.Revoke(ctx, gateway.TokenKindRefresh, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	// Role and active flag may have changed since the token was issued
	user, err := u.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		// Access tokens issued before the account was disabled must stop working too
		if err := u.LogoutAll(ctx, claims.UserID); err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return nil, ErrAccountDisabled
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, gateway.TokenKindAccess, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token: %+v", err)
		return nil, err
	}

	if err := u.sessions.Save(ctx, gateway.TokenKindRefresh, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}
