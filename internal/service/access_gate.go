package service

import (
	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

// Authorize checks whether the actor may operate through one of the required
// roles. It is a pure function of (actor, required): no identity means
// unauthorized, an empty intersection with the required set means forbidden.
// Department scoping is deliberately not checked here; "may use this role's
// surface" and "may act on this specific request" are different concerns.
func Authorize(actor *models.Actor, required ...models.UserRole) error {
	if actor == nil || actor.ID == "" {
		return appErrors.ErrUnauthorized
	}
	if len(required) == 0 {
		return nil
	}
	if actor.HasAnyRole(required...) {
		return nil
	}
	return appErrors.ErrForbidden
}

// ScopeFor derives the request visibility scope from the actor's role set.
// The broadest held role wins: ADMIN sees everything, OFFICER and DEPT_HEAD
// see their department's requests, CITIZEN sees their own. The scope is never
// taken from caller-supplied parameters.
func ScopeFor(actor *models.Actor) (models.RequestScope, error) {
	if actor == nil || actor.ID == "" {
		return models.RequestScope{}, appErrors.ErrUnauthorized
	}
	switch {
	case actor.HasRole(models.RoleAdmin):
		return models.RequestScope{Unrestricted: true}, nil
	case actor.HasAnyRole(models.RoleOfficer, models.RoleDeptHead):
		if actor.DepartmentID == nil || *actor.DepartmentID == "" {
			return models.RequestScope{}, appErrors.Clone(appErrors.ErrForbidden, "officer has no department affiliation")
		}
		return models.RequestScope{DepartmentID: *actor.DepartmentID}, nil
	case actor.HasRole(models.RoleCitizen):
		return models.RequestScope{CitizenID: actor.ID}, nil
	default:
		return models.RequestScope{}, appErrors.ErrForbidden
	}
}
