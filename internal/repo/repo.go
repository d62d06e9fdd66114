package repo

import (
	"time"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// ExpenseFilter narrows expense queries. Nil fields are not applied.
// OwnerID carries both authorization scoping and the admin-only owner filter.
type ExpenseFilter struct {
	OwnerID   *uint
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
}
