package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

type userRepoStub struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	created []*models.User
	logs    []*models.AuditLog
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byEmail: make(map[string]*models.User), byID: make(map[string]*models.User)}
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) CreateWithRoles(ctx context.Context, user *models.User, roles []models.UserRole) error {
	if user.ID == "" {
		user.ID = "user-generated"
	}
	user.Roles = roles
	s.created = append(s.created, user)
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *userRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestAuthService(repo *userRepoStub) *AuthService {
	return NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "portal-test",
	})
}

func TestAuthServiceLoginIssuesRoleSetClaims(t *testing.T) {
	repo := newUserRepoStub()
	dept := "dept-1"
	repo.byEmail["officer@example.gov"] = &models.User{
		ID:           "officer-1",
		Email:        "officer@example.gov",
		PasswordHash: hashPassword(t, "secret123"),
		FullName:     "Officer One",
		DepartmentID: &dept,
		Active:       true,
		Roles:        []models.UserRole{models.RoleOfficer, models.RoleDeptHead},
	}
	svc := newTestAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "officer@example.gov", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.ElementsMatch(t, []models.UserRole{models.RoleOfficer, models.RoleDeptHead}, res.User.Roles)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.logs[0].Action)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "officer-1", claims.UserID)
	assert.ElementsMatch(t, []models.UserRole{models.RoleOfficer, models.RoleDeptHead}, claims.Roles)
	require.NotNil(t, claims.DepartmentID)
	assert.Equal(t, "dept-1", *claims.DepartmentID)

	actor := claims.Actor()
	assert.True(t, actor.HasRole(models.RoleOfficer))
	assert.False(t, actor.HasRole(models.RoleAdmin))
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	repo := newUserRepoStub()
	repo.byEmail["citizen@example.com"] = &models.User{
		ID:           "citizen-1",
		Email:        "citizen@example.com",
		PasswordHash: hashPassword(t, "correct"),
		Active:       true,
	}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "citizen@example.com", Password: "wrong"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginUnknownEmailSameError(t *testing.T) {
	svc := newTestAuthService(newUserRepoStub())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	repo := newUserRepoStub()
	repo.byEmail["inactive@example.com"] = &models.User{
		ID:           "user-1",
		Email:        "inactive@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Active:       false,
	}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "inactive@example.com", Password: "secret123"})
	assert.True(t, appErrors.Is(err, appErrors.ErrInactiveAccount))
}

func TestAuthServiceRegisterGrantsCitizenRole(t *testing.T) {
	repo := newUserRepoStub()
	svc := newTestAuthService(repo)

	info, err := svc.Register(context.Background(), models.RegisterRequest{
		FullName: "New Citizen",
		Email:    "new@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, []models.UserRole{models.RoleCitizen}, info.Roles)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].Active)
	assert.NotEqual(t, "secret123", repo.created[0].PasswordHash)
}

func TestAuthServiceRegisterDuplicateEmailConflict(t *testing.T) {
	repo := newUserRepoStub()
	repo.byEmail["taken@example.com"] = &models.User{ID: "user-1", Email: "taken@example.com"}
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		FullName: "Dup",
		Email:    "taken@example.com",
		Password: "secret123",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestAuthServiceValidateTokenRejectsTampering(t *testing.T) {
	repo := newUserRepoStub()
	repo.byEmail["citizen@example.com"] = &models.User{
		ID:           "citizen-1",
		Email:        "citizen@example.com",
		PasswordHash: hashPassword(t, "secret123"),
		Active:       true,
		Roles:        []models.UserRole{models.RoleCitizen},
	}
	svc := newTestAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "citizen@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.AccessToken + "x")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	other := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{Secret: "different", Expiry: time.Hour})
	_, err = other.ValidateToken(res.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
