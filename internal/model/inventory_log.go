package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryLog is an append-only audit row written for every inventory mutation.
type InventoryLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	VariantID     uuid.UUID `gorm:"type:uuid;not null;index" json:"variant_id"`
	PreviousCount int       `gorm:"not null" json:"previous_count"`
	NewCount      int       `gorm:"not null" json:"new_count"`
	Reason        string    `gorm:"type:text;not null" json:"reason"`
	Actor         string    `gorm:"type:varchar(255)" json:"actor"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}

func (l *InventoryLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

const ManualAdjustmentReason = "Manual adjustment from admin"

func PurchaseReason(transactionID uuid.UUID) string {
	return fmt.Sprintf("Purchase - Transaction ID: %s", transactionID)
}

func CancellationReason(transactionID uuid.UUID) string {
	return fmt.Sprintf("Cancellation - Transaction ID: %s", transactionID)
}
