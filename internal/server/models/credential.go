// Package models defines the vault's persisted entities and their input validation.
package models

import (
	"time"

	"github.com/dmitrijs2005/credvault/internal/cryptox"
)

// Category groups credentials for display. The set is closed.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryBanking  Category = "Banking"
	CategoryOther    Category = "Other"
)

func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryBanking, CategoryOther}
}

// Credential is a stored secret. ID is zero until the repository assigns one.
type Credential struct {
	ID        int64
	OwnerID   int64
	Name      string
	Category  Category
	URL       string
	Secret    cryptox.EncryptedRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}
