package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Voyage rows are created and destroyed by voyage management; the marking
// subsystem only reads LastIssued and advances entries inside batch-creation
// transactions.
type Voyage struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VoyageNumber string            `gorm:"column:voyage_number;not null;uniqueIndex" json:"voyage_number"`
	BranchID     *uuid.UUID        `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	LastIssued   datatypes.JSONMap `gorm:"column:last_issued;type:jsonb" json:"last_issued"`
	CreatedAt    time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (Voyage) TableName() string { return "voyage" }

// LastIssuedFor reads the per-product counter, defaulting to zero. JSONB
// numbers round-trip as float64 through the driver.
func (v *Voyage) LastIssuedFor(productCode string) int {
	if v == nil || v.LastIssued == nil {
		return 0
	}
	raw, ok := v.LastIssued[productCode]
	if !ok {
		return 0
	}
	switch n := raw.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

// AdvanceLastIssued bumps the per-product counter by quantity and returns the
// new map value, initializing the map when the voyage has never issued.
func (v *Voyage) AdvanceLastIssued(productCode string, quantity int) datatypes.JSONMap {
	next := datatypes.JSONMap{}
	if v != nil && v.LastIssued != nil {
		for k, val := range v.LastIssued {
			next[k] = val
		}
	}
	next[productCode] = float64(v.LastIssuedFor(productCode) + quantity)
	return next
}
