package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"mediconnect/config"
	"mediconnect/internal/delivery/dto"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/domain/gateway"
	"mediconnect/pkg/jwt"
)

type authFixture struct {
	uc       AuthUsecase
	users    *mockUserRepo
	sessions *mockSessionStore
	jwt      *jwt.JWTService
	audit    *mockAuditService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    newMockUserRepo(),
		sessions: newMockSessionStore(),
		audit:    &mockAuditService{},
		jwt: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
	f.uc = NewAuthUsecase(newTestLogger(), f.users, f.sessions, f.jwt, f.audit)
	return f
}

func (f *authFixture) registerPatient(t *testing.T) *dto.UserResponse {
	t.Helper()
	user, err := f.uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email:    "Pat@Example.com",
		Password: "secret123",
		FullName: "Pat Patient",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

func (f *authFixture) login(t *testing.T) *dto.TokenResponse {
	t.Helper()
	tokens, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return tokens
}

func TestRegisterPatient(t *testing.T) {
	f := newAuthFixture()

	user := f.registerPatient(t)
	if user.Email != "pat@example.com" || user.Role != entity.RolePatient || user.Plan != entity.PlanFree {
		t.Errorf("unexpected user: %+v", user)
	}
	if f.users.users[user.ID].Password == "secret123" {
		t.Error("password must be stored hashed")
	}
	if !f.audit.has(entity.AuditActionUserRegister) {
		t.Error("expected user.register audit entry")
	}

	_, err := f.uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email: "pat@example.com", Password: "another1", FullName: "Someone",
	})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterDoctor_Unverified(t *testing.T) {
	f := newAuthFixture()
	lat, lng := 42.36, -71.06

	user, err := f.uc.RegisterDoctor(context.Background(), &dto.RegisterDoctorRequest{
		Email:           "house@example.com",
		Password:        "secret123",
		FullName:        "Gregory House",
		Specialty:       " Diagnostics ",
		City:            "Princeton",
		Latitude:        &lat,
		Longitude:       &lng,
		ExperienceYears: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != entity.RoleDoctor || user.DoctorProfile == nil {
		t.Fatalf("expected doctor with profile, got %+v", user)
	}
	stored := f.users.users[user.ID].DoctorProfile
	if stored.Verified || stored.UserID != user.ID || stored.Specialty != "Diagnostics" {
		t.Errorf("unexpected stored profile: %+v", stored)
	}
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	user := f.registerPatient(t)

	tokens := f.login(t)
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.ExpiresIn != 900 {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != entity.RolePatient || claims.TokenType != jwt.AccessToken {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if ok, _ := f.sessions.Exists(context.Background(), gateway.TokenKindAccess, user.ID, claims.TokenID); !ok {
		t.Error("expected access token session to be stored")
	}
}

func TestLogin_Rejections(t *testing.T) {
	f := newAuthFixture()
	user := f.registerPatient(t)

	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	f.users.users[user.ID].IsActive = false
	if _, err := f.uc.Login(context.Background(), &dto.LoginRequest{Email: "pat@example.com", Password: "secret123"}); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestRefreshToken_Rotates(t *testing.T) {
	f := newAuthFixture()
	f.registerPatient(t)
	tokens := f.login(t)

	rotated, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("expected a new refresh token")
	}

	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected reused refresh token to be revoked, got %v", err)
	}

	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: rotated.AccessToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected access token to be rejected, got %v", err)
	}
	_, err = f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()
	user := f.registerPatient(t)
	tokens := f.login(t)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	session := entity.Session{UserID: user.ID, Email: user.Email, Role: user.Role, TokenID: claims.TokenID}

	if err := f.uc.Logout(context.Background(), session, tokens.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := f.sessions.Exists(context.Background(), gateway.TokenKindAccess, user.ID, claims.TokenID); ok {
		t.Error("expected access token to be revoked")
	}
	if _, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected refresh token to be revoked, got %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	f := newAuthFixture()
	user := f.registerPatient(t)

	me, err := f.uc.GetCurrentUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.Email != "pat@example.com" {
		t.Errorf("unexpected user: %+v", me)
	}
}

func TestLogoutAll(t *testing.T) {
	f := newAuthFixture()
	user := f.registerPatient(t)
	first := f.login(t)
	second := f.login(t)

	if err := f.uc.LogoutAll(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.sessions.sessions) != 0 {
		t.Errorf("expected every session to be revoked, %d left", len(f.sessions.sessions))
	}
	for _, tokens := range []*dto.TokenResponse{first, second} {
		_, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
		if !errors.Is(err, ErrTokenRevoked) {
			t.Errorf("expected ErrTokenRevoked, got %v", err)
		}
	}
}

func TestRefreshToken_DisabledAccountRevokesAll(t *testing.T) {
	f := newAuthFixture()
	user := f.registerPatient(t)
	first := f.login(t)
	f.login(t)

	f.users.users[user.ID].IsActive = false

	_, err := f.uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
	if len(f.sessions.sessions) != 0 {
		t.Errorf("expected all sessions of the disabled account to be revoked, %d left", len(f.sessions.sessions))
	}
}
