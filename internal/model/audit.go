package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Approval workflow actions
	ActionApproveAccount = "APPROVE_ACCOUNT"
	ActionRejectAccount  = "REJECT_ACCOUNT"

	// Order lifecycle actions
	ActionAssignDriver        = "ASSIGN_DRIVER"
	ActionDriverClaimOrder    = "DRIVER_CLAIM_ORDER"
	ActionOverrideOrderStatus = "OVERRIDE_ORDER_STATUS"
	ActionDeleteOrder         = "DELETE_ORDER"
)

// AuditLog tracks Who, What, and When for admin overrides and the approval
// workflow.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Null when the acting account was deleted afterwards
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/username)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:text" json:"details"`                       // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
