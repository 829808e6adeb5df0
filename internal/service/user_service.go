package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fazeltamana/Portal/internal/dto"
	"github.com/fazeltamana/Portal/internal/models"
	appErrors "github.com/fazeltamana/Portal/pkg/errors"
)

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDWithDepartment(ctx context.Context, id string) (*models.User, string, error)
	CreateWithRoles(ctx context.Context, user *models.User, roles []models.UserRole) error
	UpdateProfile(ctx context.Context, id, fullName string, phone *string, dateOfBirth *time.Time) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// ProfileView is a user's own account enriched with the department name.
type ProfileView struct {
	User           *models.User `json:"user"`
	DepartmentName string       `json:"department_name,omitempty"`
}

// UserService covers admin staff provisioning and self-service profiles.
type UserService struct {
	store     userStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService wires the user service.
func NewUserService(store userStore, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{store: store, validator: validate, logger: logger}
}

// CreateStaff provisions an officer or department head account. Only
// administrators may call it, and only staff roles can be granted this way.
func (s *UserService) CreateStaff(ctx context.Context, actor *models.Actor, req *dto.CreateStaffRequest) (*models.UserInfo, error) {
	if err := Authorize(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if req.Role != models.RoleOfficer && req.Role != models.RoleDeptHead {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be OFFICER or DEPT_HEAD")
	}

	if _, err := s.store.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	departmentID := req.DepartmentID
	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		DepartmentID: &departmentID,
		Active:       true,
	}
	if err := s.store.CreateWithRoles(ctx, user, []models.UserRole{req.Role}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "create staff account")
	}

	if err := s.store.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.ID,
		Action:     models.AuditActionUserCreate,
		Resource:   "users",
		ResourceID: &user.ID,
	}); err != nil {
		s.logger.Warn("failed to record staff creation audit log", zap.Error(err))
	}

	s.logger.Info("staff account created",
		zap.String("user_id", user.ID),
		zap.String("role", string(req.Role)),
		zap.String("department_id", departmentID))
	return &models.UserInfo{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Roles:        user.Roles,
		DepartmentID: user.DepartmentID,
	}, nil
}

// Profile returns the actor's own account.
func (s *UserService) Profile(ctx context.Context, actor *models.Actor) (*ProfileView, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}
	user, departmentName, err := s.store.FindByIDWithDepartment(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "load profile")
	}
	return &ProfileView{User: user, DepartmentName: departmentName}, nil
}

// UpdateProfile persists the actor's self-service profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.Actor, req *dto.UpdateProfileRequest) (*ProfileView, error) {
	if err := Authorize(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if err := s.store.UpdateProfile(ctx, actor.ID, req.FullName, req.Phone, req.DateOfBirth); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "update profile")
	}

	if err := s.store.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.ID,
		Action:     models.AuditActionProfileUpdate,
		Resource:   "users",
		ResourceID: &actor.ID,
	}); err != nil {
		s.logger.Warn("failed to record profile update audit log", zap.Error(err))
	}

	return s.Profile(ctx, actor)
}
