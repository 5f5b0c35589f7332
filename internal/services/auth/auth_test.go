package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/social-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/social-hub/internal/lib/password"
	"github.com/magabrotheeeer/social-hub/internal/models"
	services "github.com/magabrotheeeer/social-hub/internal/services/auth"
	"github.com/magabrotheeeer/social-hub/internal/services/errs"
	"github.com/magabrotheeeer/social-hub/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userUID, role string) (string, error) {
	args := m.Called(userUID, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(r *UserRepoMock)
		wantUserUID string
		wantErr     error
	}{
		{
			name: "successful registration",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Name == "Test User" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123" &&
						user.Role == models.RoleParticipant &&
						user.OrganizerApprovalStatus == models.ApprovalNotApplied
				})).Return("some-uuid-string", nil).Once()
			},
			wantUserUID: "some-uuid-string",
		},
		{
			name: "email taken",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", storage.ErrAlreadyExists).Once()
			},
			wantErr: errs.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, new(JwtMakerMock))
			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), "Test User", "test@example.com", "password123")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_CreateAdmin(t *testing.T) {
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, new(JwtMakerMock))
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
		return user.Role == models.RoleAdmin && password.CompareHash(user.PasswordHash, "s3cret-pass") == nil
	})).Return("admin-uid", nil).Once()

	uid, err := svc.CreateAdmin(context.Background(), "Root", "root@example.com", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "admin-uid", uid)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashed, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	user := &models.User{UUID: "uid-1", Email: "a@example.com", PasswordHash: hashed, Role: models.RoleOrganizer}

	tests := []struct {
		name       string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "success",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(user, nil).Once()
				j.On("GenerateToken", "uid-1", models.RoleOrganizer).Return("token", nil).Once()
			},
			wantToken: "token",
		},
		{
			name:     "wrong password",
			password: "wrong",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(user, nil).Once()
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: errs.ErrInvalidCredentials,
		},
		{
			name:     "token generation fails",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "a@example.com").Return(user, nil).Once()
				j.On("GenerateToken", "uid-1", models.RoleOrganizer).Return("", errors.New("sign error")).Once()
			},
			wantErr: errors.New("sign error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			tt.setupMocks(repo, jwtMock)
			svc := services.NewAuthService(repo, jwtMock)

			token, got, err := svc.Login(context.Background(), "a@example.com", tt.password)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, user, got)
			case errors.Is(tt.wantErr, errs.ErrInvalidCredentials):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantActor  models.Actor
		wantErr    error
	}{
		{
			name:  "role from database",
			token: "good",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "good").Return(&customjwt.CustomClaims{UserUID: "uid-1", Role: models.RoleAdmin}, nil).Once()
				r.On("GetUser", mock.Anything, "uid-1").Return(&models.User{UUID: "uid-1", Role: models.RoleAdmin}, nil).Once()
			},
			wantActor: models.Actor{UserUID: "uid-1", Role: models.RoleAdmin},
		},
		{
			name:  "expired token",
			token: "bad",
			setupMocks: func(_ *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "bad").Return(nil, errors.New("expired")).Once()
			},
			wantErr: errors.New("expired"),
		},
		{
			name:  "user deleted",
			token: "orphan",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "orphan").Return(&customjwt.CustomClaims{UserUID: "uid-2", Role: models.RoleParticipant}, nil).Once()
				r.On("GetUser", mock.Anything, "uid-2").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: errs.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			tt.setupMocks(repo, jwtMock)
			svc := services.NewAuthService(repo, jwtMock)

			actor, err := svc.ValidateToken(context.Background(), tt.token)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, tt.wantActor, actor)
			case errors.Is(tt.wantErr, errs.ErrInvalidCredentials):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken_ApprovedOrganizerWithOldToken(t *testing.T) {
	hashed, err := password.GetHash("pass-123")
	require.NoError(t, err)
	user := &models.User{UUID: "uid-7", Email: "p@example.com", PasswordHash: hashed, Role: models.RoleParticipant}

	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "p@example.com").Return(user, nil).Once()
	svc := services.NewAuthService(repo, customjwt.NewJWTMaker("secret", time.Hour))

	token, _, err := svc.Login(context.Background(), "p@example.com", "pass-123")
	require.NoError(t, err)

	approved := *user
	approved.Role = models.RoleOrganizer
	approved.OrganizerApprovalStatus = models.ApprovalApproved
	repo.On("GetUser", mock.Anything, "uid-7").Return(&approved, nil).Once()

	actor, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganizer, actor.Role)
	repo.AssertExpectations(t)
}
