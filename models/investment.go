package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Amounts are sent to clients as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	InvestmentStatusPending = "pending"
	ContractStatusDraft     = "draft"
)

type Investment struct {
	ID         string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvestorID string            `gorm:"type:varchar(191);index" json:"investorId"`
	StartupID  string            `gorm:"type:varchar(191);index" json:"startupId"`
	Amount     decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	Type       string            `gorm:"type:varchar(32);not null;index:idx_investments_type_status" json:"type"`
	Terms      datatypes.JSONMap `json:"terms"`
	Status     string            `gorm:"type:varchar(32);not null;default:'pending';index:idx_investments_type_status" json:"status"`
	CreatedBy  string            `gorm:"type:varchar(191)" json:"createdBy"`
	CreatedAt  time.Time         `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func (Investment) TableName() string {
	return "investments"
}
