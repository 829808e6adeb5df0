package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fazeltamana/Portal/internal/dto"
	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

// The auth tests own userRepoStub; the profile-facing methods live here so the
// same stub satisfies the user service too.

func (s *userRepoStub) FindByIDWithDepartment(ctx context.Context, id string) (*models.User, string, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	name := ""
	if user.DepartmentID != nil {
		name = "Civil Registry"
	}
	return user, name, nil
}

func (s *userRepoStub) UpdateProfile(ctx context.Context, id, fullName string, phone *string, dateOfBirth *time.Time) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.FullName = fullName
	user.Phone = phone
	user.DateOfBirth = dateOfBirth
	return nil
}

func TestUserServiceCreateStaffAdminOnly(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.CreateStaff(context.Background(), officerActor("officer-1", "dept-1"), &dto.CreateStaffRequest{
		FullName:     "New Officer",
		Email:        "officer@example.gov",
		Password:     "secret123",
		Role:         models.RoleOfficer,
		DepartmentID: "dept-1",
	})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Empty(t, repo.created)
}

func TestUserServiceCreateStaffAssignsDepartment(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, zap.NewNop())

	info, err := svc.CreateStaff(context.Background(), adminActor(), &dto.CreateStaffRequest{
		FullName:     "New Officer",
		Email:        "officer@example.gov",
		Password:     "secret123",
		Role:         models.RoleOfficer,
		DepartmentID: "dept-1",
	})
	require.NoError(t, err)
	assert.Equal(t, []models.UserRole{models.RoleOfficer}, info.Roles)
	require.NotNil(t, info.DepartmentID)
	assert.Equal(t, "dept-1", *info.DepartmentID)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].Active)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.logs[0].Action)
}

func TestUserServiceCreateStaffRejectsNonStaffRoles(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, zap.NewNop())

	for _, role := range []models.UserRole{models.RoleCitizen, models.RoleAdmin, "AUDITOR"} {
		_, err := svc.CreateStaff(context.Background(), adminActor(), &dto.CreateStaffRequest{
			FullName:     "Someone",
			Email:        "someone@example.gov",
			Password:     "secret123",
			Role:         role,
			DepartmentID: "dept-1",
		})
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "role %s must be rejected", role)
	}
}

func TestUserServiceCreateStaffDuplicateEmail(t *testing.T) {
	repo := newUserRepoStub()
	repo.byEmail["taken@example.gov"] = &models.User{ID: "user-1", Email: "taken@example.gov"}
	svc := NewUserService(repo, nil, zap.NewNop())

	_, err := svc.CreateStaff(context.Background(), adminActor(), &dto.CreateStaffRequest{
		FullName:     "Dup",
		Email:        "taken@example.gov",
		Password:     "secret123",
		Role:         models.RoleDeptHead,
		DepartmentID: "dept-1",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestUserServiceProfileRoundTrip(t *testing.T) {
	repo := newUserRepoStub()
	dept := "dept-1"
	repo.byID["officer-1"] = &models.User{
		ID:           "officer-1",
		Email:        "officer@example.gov",
		FullName:     "Officer One",
		DepartmentID: &dept,
		Active:       true,
	}
	svc := NewUserService(repo, nil, zap.NewNop())
	actor := officerActor("officer-1", "dept-1")

	profile, err := svc.Profile(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, "Officer One", profile.User.FullName)
	assert.Equal(t, "Civil Registry", profile.DepartmentName)

	phone := "+93-70-000-0000"
	updated, err := svc.UpdateProfile(context.Background(), actor, &dto.UpdateProfileRequest{
		FullName: "Officer Renamed",
		Phone:    &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Officer Renamed", updated.User.FullName)
	require.NotNil(t, updated.User.Phone)
	assert.Equal(t, phone, *updated.User.Phone)
}

func TestUserServiceProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newUserRepoStub(), nil, zap.NewNop())

	_, err := svc.Profile(context.Background(), citizenActor("ghost"))
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
