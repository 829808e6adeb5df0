package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fazeltamana/Portal/internal/models"
)

// UserRepository provides database access for accounts, their role sets, and
// the audit trail.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, national_id, date_of_birth, phone, department_id, active, created_at, updated_at`

// FindByEmail returns a user with their role set by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if err := r.loadRoles(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user with their role set by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	if err := r.loadRoles(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDWithDepartment returns the user plus their department name.
func (r *UserRepository) FindByIDWithDepartment(ctx context.Context, id string) (*models.User, string, error) {
	const query = `SELECT u.id, u.email, u.password_hash, u.full_name, u.national_id, u.date_of_birth,
       u.phone, u.department_id, u.active, u.created_at, u.updated_at,
       COALESCE(d.name, '') AS department_name
	FROM users u
	LEFT JOIN departments d ON d.id = u.department_id
	WHERE u.id = $1 LIMIT 1`
	var row struct {
		models.User
		DepartmentName string `db:"department_name"`
	}
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, "", err
	}
	if err := r.loadRoles(ctx, &row.User); err != nil {
		return nil, "", err
	}
	return &row.User, row.DepartmentName, nil
}

// CreateWithRoles inserts a user and links their role set in one transaction.
// Missing role rows are created on the fly, mirroring the registration flow.
func (r *UserRepository) CreateWithRoles(ctx context.Context, user *models.User, roles []models.UserRole) (err error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin user transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertUser = `INSERT INTO users
	(id, email, password_hash, full_name, national_id, date_of_birth, phone, department_id, active, created_at, updated_at)
	VALUES (:id, :email, :password_hash, :full_name, :national_id, :date_of_birth, :phone, :department_id, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertUser, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	for _, role := range roles {
		var roleID string
		const findRole = `SELECT id FROM roles WHERE name = $1`
		if err = tx.GetContext(ctx, &roleID, findRole, role); err != nil {
			if err != sql.ErrNoRows {
				return fmt.Errorf("find role: %w", err)
			}
			roleID = uuid.NewString()
			const insertRole = `INSERT INTO roles (id, name) VALUES ($1, $2)`
			if _, err = tx.ExecContext(ctx, insertRole, roleID, role); err != nil {
				return fmt.Errorf("insert role: %w", err)
			}
		}
		const linkRole = `INSERT INTO users_roles (user_id, role_id) VALUES ($1, $2)`
		if _, err = tx.ExecContext(ctx, linkRole, user.ID, roleID); err != nil {
			return fmt.Errorf("link user role: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit user: %w", err)
	}
	user.Roles = append([]models.UserRole(nil), roles...)
	return nil
}

// UpdateProfile persists the self-service profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id, fullName string, phone *string, dateOfBirth *time.Time) error {
	const query = `UPDATE users SET full_name = $2, phone = $3, date_of_birth = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, fullName, phone, dateOfBirth, time.Now().UTC()); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit trail record.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at)
	VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

func (r *UserRepository) loadRoles(ctx context.Context, user *models.User) error {
	const query = `SELECT r.name FROM users_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = $1 ORDER BY r.name`
	var roles []models.UserRole
	if err := r.db.SelectContext(ctx, &roles, query, user.ID); err != nil {
		return fmt.Errorf("load user roles: %w", err)
	}
	user.Roles = roles
	return nil
}
