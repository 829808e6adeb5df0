package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

func TestAuthorizeRejectsMissingIdentity(t *testing.T) {
	assert.ErrorIs(t, Authorize(nil, models.RoleCitizen), appErrors.ErrUnauthorized)
	assert.ErrorIs(t, Authorize(&models.Actor{}, models.RoleCitizen), appErrors.ErrUnauthorized)
}

func TestAuthorizeRejectsDisjointRoleSet(t *testing.T) {
	actor := &models.Actor{ID: "user-1", Roles: []models.UserRole{models.RoleCitizen}}
	assert.ErrorIs(t, Authorize(actor, models.RoleOfficer, models.RoleAdmin), appErrors.ErrForbidden)
}

func TestAuthorizeAllowsIntersectingRoleSet(t *testing.T) {
	actor := &models.Actor{ID: "user-1", Roles: []models.UserRole{models.RoleCitizen, models.RoleOfficer}}
	assert.NoError(t, Authorize(actor, models.RoleOfficer))
	assert.NoError(t, Authorize(actor))
}

func TestScopeForAdminUnrestricted(t *testing.T) {
	dept := "dept-1"
	actor := &models.Actor{ID: "admin-1", Roles: []models.UserRole{models.RoleAdmin, models.RoleOfficer}, DepartmentID: &dept}

	scope, err := ScopeFor(actor)
	require.NoError(t, err)
	assert.True(t, scope.Unrestricted)
	assert.Empty(t, scope.CitizenID)
	assert.Empty(t, scope.DepartmentID)
}

func TestScopeForOfficerDepartment(t *testing.T) {
	dept := "dept-1"
	actor := &models.Actor{ID: "officer-1", Roles: []models.UserRole{models.RoleOfficer}, DepartmentID: &dept}

	scope, err := ScopeFor(actor)
	require.NoError(t, err)
	assert.Equal(t, "dept-1", scope.DepartmentID)
	assert.False(t, scope.Unrestricted)
}

func TestScopeForOfficerWithoutDepartment(t *testing.T) {
	actor := &models.Actor{ID: "officer-1", Roles: []models.UserRole{models.RoleOfficer}}

	_, err := ScopeFor(actor)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestScopeForCitizenOwnRequests(t *testing.T) {
	actor := &models.Actor{ID: "citizen-1", Roles: []models.UserRole{models.RoleCitizen}}

	scope, err := ScopeFor(actor)
	require.NoError(t, err)
	assert.Equal(t, "citizen-1", scope.CitizenID)
}

func TestScopeForUnknownRoleForbidden(t *testing.T) {
	actor := &models.Actor{ID: "user-1", Roles: []models.UserRole{"AUDITOR"}}

	_, err := ScopeFor(actor)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}
