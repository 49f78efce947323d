package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MarkBatch struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BatchLabel    string         `gorm:"column:batch_label;not null" json:"batch_label"`
	ProductCode   string         `gorm:"column:product_code;not null;index" json:"product_code"`
	VoyageNumber  string         `gorm:"column:voyage_number;not null;index" json:"voyage_number"`
	Status        string         `gorm:"column:status;not null;index" json:"status"`
	Quantity      int            `gorm:"column:quantity;not null" json:"quantity"`
	FirstSequence int            `gorm:"column:first_sequence;not null" json:"first_sequence"`
	LastSequence  int            `gorm:"column:last_sequence;not null" json:"last_sequence"`
	BranchID      *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	CreatedBy     *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	Codes         []MarkCode     `gorm:"foreignKey:BatchID;references:ID" json:"codes,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MarkBatch) TableName() string { return "mark_batch" }
