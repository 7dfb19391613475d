package rbac

import "time"

const (
	RoleOwner    = "owner"
	RoleFinance  = "finance"
	RoleVerifier = "verifier"
	RoleViewer   = "viewer"
	// RoleAdmin maintains the national tax-rate tables.
	RoleAdmin    = "admin"
)

// UserRole assigns a role to a user within one company.
type UserRole struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	CompanyID string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_company_user"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_company_user"`
	Role      string    `gorm:"size:32;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserRole) TableName() string { return "user_roles" }

// RolePermission grants resource:action to a role in every company.
type RolePermission struct {
	Role     string `gorm:"primaryKey;size:32"`
	Resource string `gorm:"primaryKey;size:64"`
	Action   string `gorm:"primaryKey;size:32"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// DefaultPermissions is the built-in grant table seeded at startup.
var DefaultPermissions = map[string][]string{
	RoleOwner: {
		"payroll:read", "payroll:process", "payroll:disburse", "payroll:configure",
		"employee:read", "employee:manage",
		"wallet:read", "wallet:fund", "wallet:verify",
		"tax_rate:read",
		"role:manage", "company:update",
	},
	RoleFinance: {
		"payroll:read", "payroll:process", "payroll:disburse",
		"employee:read", "employee:manage",
		"wallet:read", "wallet:fund",
		"tax_rate:read",
	},
	RoleVerifier: {
		"wallet:read", "wallet:verify",
	},
	RoleViewer: {
		"payroll:read", "employee:read", "wallet:read", "tax_rate:read",
	},
	RoleAdmin: {
		"tax_rate:read", "tax_rate:manage",
	},
}

func IsKnownRole(role string) bool {
	_, ok := DefaultPermissions[role]
	return ok
}
