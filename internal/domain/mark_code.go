package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarkCode is one uniquely numbered printable identifier for one physical
// item. The composite unique index is the subsystem's core invariant; the
// serialized allocator should make it unreachable, the index makes a race
// fail loudly instead of silently double-issuing.
type MarkCode struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductCode        string         `gorm:"column:product_code;not null;index;uniqueIndex:ux_mark_code_identity" json:"product_code"`
	SequenceNumber     int            `gorm:"column:sequence_number;not null;uniqueIndex:ux_mark_code_identity" json:"sequence_number"`
	VoyageNumber       string         `gorm:"column:voyage_number;not null;index;uniqueIndex:ux_mark_code_identity" json:"voyage_number"`
	Status             string         `gorm:"column:status;not null;index" json:"status"`
	PrintAttempts      int            `gorm:"column:print_attempts;not null;default:0" json:"print_attempts"`
	LastPrintAttemptAt *time.Time     `gorm:"column:last_print_attempt_at" json:"last_print_attempt_at,omitempty"`
	BatchID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"batch_id"`
	Batch              *MarkBatch     `gorm:"constraint:OnDelete:CASCADE;foreignKey:BatchID;references:ID" json:"batch,omitempty"`
	BranchID           *uuid.UUID     `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MarkCode) TableName() string { return "mark_code" }

func (c *MarkCode) DisplayCode() string {
	if c == nil {
		return ""
	}
	return RenderDisplayCode(c.ProductCode, c.SequenceNumber, c.VoyageNumber)
}
