package rbac

import (
	"context"
	"database/sql"
	"strings"

	"kazini-payroll/internal/shared/connection"
	"kazini-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetUserRoles(ctx context.Context, companyID string) ([]UserRole, error)
	GetRolePermissions(ctx context.Context) ([]RolePermission, error)
	AssignRole(ctx context.Context, ur *UserRole) error
	EnsurePermissions(ctx context.Context, perms []RolePermission) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) GetUserRoles(ctx context.Context, companyID string) ([]UserRole, error) {
	var result []UserRole
	err := connection.Conn(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID)).Find(&result).Error
	return result, err
}

func (r *repository) GetRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var result []RolePermission
	err := connection.Conn(ctx, r.db, r.tx).Order("role, resource, action").Find(&result).Error
	return result, err
}

// AssignRole replaces the user's role in the company.
func (r *repository) AssignRole(ctx context.Context, ur *UserRole) error {
	return connection.Conn(ctx, r.db, r.tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "company_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
	}).Create(ur).Error
}

func (r *repository) EnsurePermissions(ctx context.Context, perms []RolePermission) error {
	if len(perms) == 0 {
		return nil
	}
	return connection.Conn(ctx, r.db, r.tx).Clauses(clause.OnConflict{DoNothing: true}).Create(&perms).Error
}

// DefaultRolePermissions flattens DefaultPermissions into rows.
func DefaultRolePermissions() []RolePermission {
	var rows []RolePermission
	for role, grants := range DefaultPermissions {
		for _, grant := range grants {
			resource, action, _ := strings.Cut(grant, ":")
			rows = append(rows, RolePermission{Role: role, Resource: resource, Action: action})
		}
	}
	return rows
}
