package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company's rows. An empty companyID matches
// nothing, so a missing claim can never widen a query to every tenant.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if companyID == "" {
			return db.Where("1 = 0")
		}
		return db.Where("company_id = ?", companyID)
	}
}
